package frontend

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/github-activity-tracker/internal/errors"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/render"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/security"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/types"
)

const appTitle = "GitHub Activity Tracker"

// Runner executes one analysis request
type Runner interface {
	Run(ctx context.Context, req types.AnalyzeRequest) (*analysis.Result, error)
}

// VariantOption is one entry of the variant select box
type VariantOption struct {
	Value    types.Variant
	Label    string
	Selected bool
}

// Page is the view model of the dashboard
type Page struct {
	Title    string
	Nonce    string
	Greeting string
	Form     types.AnalyzeRequest
	Variants []VariantOption
	Notices  []analysis.Notice
	Result   *analysis.Result

	ActivityChart template.HTML
	WeekdayChart  template.HTML
	LanguageChart template.HTML
}

var variantLabels = map[types.Variant]string{
	types.VariantEvents:  "Public events (recent activity)",
	types.VariantCommits: "Commits across owned repositories",
	types.VariantRepos:   "Commits and languages per repository",
}

// Handler serves the server-rendered dashboard
type Handler struct {
	runner Runner
	guard  *security.SecurityMiddleware
	tmpl   *template.Template
	static http.Handler
	logger *slog.Logger
}

// NewHandler loads the embedded templates and static assets
func NewHandler(runner Runner, guard *security.SecurityMiddleware, logger *slog.Logger) (*Handler, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	staticFS, err := StaticFS()
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		runner: runner,
		guard:  guard,
		tmpl:   tmpl,
		static: http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))),
		logger: logger,
	}, nil
}

// Index renders the empty form
func (h *Handler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, h.newPage(c, types.AnalyzeRequest{}))
}

// Analyze runs the submitted form and renders the result page. Input
// problems become warning notices on a 200 page, not errors.
func (h *Handler) Analyze(c *gin.Context) {
	var form types.AnalyzeRequest
	if err := c.ShouldBind(&form); err != nil {
		page := h.newPage(c, form)
		page.Notices = append(page.Notices, warning("Could not read the form. Please try again."))
		h.render(c, http.StatusOK, page)
		return
	}

	if err := h.guard.SanitizeRequest(&form); err != nil {
		page := h.newPage(c, form)
		page.Notices = append(page.Notices, warningFor(err))
		h.render(c, http.StatusOK, page)
		return
	}

	page := h.newPage(c, form)
	res, err := h.runner.Run(c.Request.Context(), form)
	if err != nil {
		appErr := apperrors.ToAppError(err)
		if appErr.Category != apperrors.CategoryValidation {
			apperrors.LogError(c, appErr)
		}
		page.Notices = append(page.Notices, warningFor(appErr))
		h.render(c, http.StatusOK, page)
		return
	}

	page.Result = res
	page.Greeting = res.Greeting()
	page.Notices = append(page.Notices, res.Notices...)
	if err := h.drawCharts(page, res); err != nil {
		apperrors.LogError(c, apperrors.NewInternalError("failed to render charts", err))
	}
	h.render(c, http.StatusOK, page)
}

// RateLimited renders the form with a retry notice for refused analysis runs
func (h *Handler) RateLimited(c *gin.Context, appErr *apperrors.AppError) {
	var form types.AnalyzeRequest
	_ = c.ShouldBind(&form)

	msg := "Too many analyses from your address. Please try again later."
	if retry := c.Writer.Header().Get("Retry-After"); retry != "" {
		msg = fmt.Sprintf("Too many analyses from your address. Please try again in %s.", Plural("second", retryAfter(retry)))
	}

	page := h.newPage(c, form)
	page.Notices = append(page.Notices, warning(msg))
	h.render(c, appErr.HTTPStatus, page)
}

// Static serves the embedded stylesheet
func (h *Handler) Static(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	h.static.ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) drawCharts(page *Page, res *analysis.Result) error {
	var err error
	if page.ActivityChart, err = render.LineChart(res.DaySeries, res.Username); err != nil {
		return err
	}
	if page.WeekdayChart, err = render.BarChart(res.Weekdays, res.Username); err != nil {
		return err
	}
	if res.ShowsRepositories() {
		if page.LanguageChart, err = render.PieChart(res.Languages); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) newPage(c *gin.Context, form types.AnalyzeRequest) *Page {
	selected, err := types.ParseVariant(string(form.Variant))
	if err != nil {
		selected = types.VariantEvents
	}

	options := make([]VariantOption, 0, len(types.Variants))
	for _, v := range types.Variants {
		options = append(options, VariantOption{Value: v, Label: variantLabels[v], Selected: v == selected})
	}

	title := appTitle
	if name := strings.TrimSpace(form.DisplayName); name != "" {
		title = name + "'s " + appTitle
	}

	return &Page{
		Title:    title,
		Nonce:    security.GetNonce(c),
		Form:     form,
		Variants: options,
	}
}

func (h *Handler) render(c *gin.Context, status int, page *Page) {
	if err := RenderPage(c, h.tmpl, status, page); err != nil {
		h.logger.Error("Failed to render page", "error", err, "path", c.Request.URL.Path)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func warning(msg string) analysis.Notice {
	return analysis.Notice{Level: analysis.NoticeWarning, Message: msg}
}

func warningFor(err error) analysis.Notice {
	return warning(apperrors.ToAppError(err).ErrBuilder.Msg)
}

func retryAfter(header string) int {
	n, err := strconv.Atoi(header)
	if err != nil || n <= 0 {
		return 60
	}
	return n
}
