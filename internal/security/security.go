package security

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/github-activity-tracker/internal/errors"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/types"
)

// MaxUsernameLength is GitHub's limit on login length
const MaxUsernameLength = 39

// alphanumerics separated by single hyphens, no leading or trailing hyphen
var githubLogin = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxInputLength int           `json:"max_input_length"`
	AllowedOrigins []string      `json:"allowed_origins"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultSecurityConfig returns secure defaults. RequestTimeout 0 leaves
// analysis runs unbounded.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxInputLength: 100,
		AllowedOrigins: []string{"http://localhost:8080"},
		RequestTimeout: 0,
	}
}

// SecurityMiddleware bundles input validation and the request-level guards
type SecurityMiddleware struct {
	config SecurityConfig
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	if config.MaxInputLength <= 0 {
		config.MaxInputLength = DefaultSecurityConfig().MaxInputLength
	}
	return &SecurityMiddleware{config: config}
}

// Config returns the active configuration
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// ValidateUsername checks GitHub login syntax
func ValidateUsername(username string) error {
	if len(username) > MaxUsernameLength {
		return apperrors.NewValidationError(
			"GitHub usernames are at most 39 characters.",
			"username too long: "+strconv.Itoa(len(username)),
		)
	}
	if !githubLogin.MatchString(username) {
		return apperrors.NewValidationError(
			"That does not look like a GitHub username.",
			"usernames may contain only letters, digits and single hyphens",
		)
	}
	return nil
}

// CleanDisplayName makes a greeting name printable. Invalid UTF-8 is replaced,
// control characters become spaces and the result is cut to MaxInputLength
// runes. The name is cosmetic, so it is never rejected.
func (sm *SecurityMiddleware) CleanDisplayName(name string) string {
	name = strings.ToValidUTF8(name, "\uFFFD")
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")

	if utf8.RuneCountInString(name) > sm.config.MaxInputLength {
		runes := []rune(name)
		name = strings.TrimSpace(string(runes[:sm.config.MaxInputLength]))
	}
	return name
}

// SanitizeRequest trims every field of req in place, cleans the display name
// and validates the username when present. An empty username is left for the
// analyzer to report.
func (sm *SecurityMiddleware) SanitizeRequest(req *types.AnalyzeRequest) error {
	req.DisplayName = sm.CleanDisplayName(req.DisplayName)
	req.Username = strings.TrimPrefix(strings.TrimSpace(req.Username), "@")
	req.Variant = types.Variant(strings.TrimSpace(string(req.Variant)))

	if req.Username == "" {
		return nil
	}
	return ValidateUsername(req.Username)
}

// ValidateContentType rejects bodies that are neither JSON nor form-encoded
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	contentType := strings.ToLower(c.GetHeader("Content-Type"))

	allowedTypes := []string{
		"application/json",
		"application/x-www-form-urlencoded",
		"multipart/form-data",
	}

	if contentType != "" {
		found := false
		for _, allowed := range allowedTypes {
			if strings.Contains(contentType, allowed) {
				found = true
				break
			}
		}

		if !found {
			appErr := apperrors.NewValidationError("unsupported content type", contentType)
			appErr.HTTPStatus = http.StatusUnsupportedMediaType
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
			return
		}
	}

	c.Next()
}

// RequestTimeout bounds the request context when a timeout is configured
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	if sm.config.RequestTimeout <= 0 {
		c.Next()
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// CORS returns the gin-contrib/cors handler for the JSON API
func (sm *SecurityMiddleware) CORS() gin.HandlerFunc {
	origins := make([]string, 0, len(sm.config.AllowedOrigins))
	allowAll := false
	for _, o := range sm.config.AllowedOrigins {
		switch o = strings.TrimRight(strings.TrimSpace(o), "/"); o {
		case "":
		case "*":
			allowAll = true
		default:
			origins = append(origins, o)
		}
	}

	if !allowAll && len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if allowAll {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return cors.New(config)
}
