package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/adapters"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/analysis"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/config"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/monitoring"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/security"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/types"
)

type rootOptions struct {
	apiURL  string
	timeout time.Duration
	debug   bool
}

type analyzeOptions struct {
	variant string
	name    string
	width   int
	json    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:     "ghactivity",
		Short:   "Chart a GitHub user's public activity in the terminal",
		Version: version,

		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("ghactivity v%s\n", version))

	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "GitHub API root (defaults to GITHUB_API_URL or https://api.github.com)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Abort the analysis after this long (0 disables)")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug log output")

	root.AddCommand(newAnalyzeCmd(opts))
	return root
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <username>",
		Short: "Fetch and summarize public activity for a GitHub user",
		Long: `Fetches the user's public GitHub activity without authentication and prints
a day sparkline, the weekday distribution and, with --variant repos, commits per
repository and language shares.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.variant, "variant", "v", string(types.VariantEvents), "Analysis variant: events, commits or repos")
	flags.StringVarP(&opts.name, "name", "n", "", "Your name, used in the greeting")
	flags.IntVar(&opts.width, "width", defaultBarWidth, "Width of the weekday bars")
	flags.BoolVar(&opts.json, "json", false, "Print the result as JSON instead of a report")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions, username string) error {
	req := types.AnalyzeRequest{DisplayName: opts.name, Username: username, Variant: types.Variant(opts.variant)}
	guard := security.NewSecurityMiddleware(security.DefaultSecurityConfig())
	if err := guard.SanitizeRequest(&req); err != nil {
		return err
	}
	if _, err := types.ParseVariant(string(req.Variant)); err != nil {
		return err
	}

	apiURL := root.apiURL
	if apiURL == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		apiURL = cfg.GitHubAPIURL
	}

	logger := newLogger(cmd.ErrOrStderr(), root.debug)
	github := adapters.NewGitHubAdapter(apiURL, logger, nil)
	defer github.Close()
	service := analysis.NewService(github, logger, nil)

	ctx := cmd.Context()
	if root.timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, root.timeout)
		defer cancel()
	}

	spin := startSpinner(cmd)
	spin.Update(fmt.Sprintf("Analyzing %s (%s)...", req.Username, req.Variant))
	res, err := service.Run(ctx, req)
	spin.Stop()
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printReport(cmd.OutOrStdout(), res, opts.width)
}

// newLogger keeps the terminal quiet unless --debug is set
func newLogger(w io.Writer, debug bool) *monitoring.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return &monitoring.Logger{Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}
