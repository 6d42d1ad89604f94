// Package commands implements CLI command handlers for wikireport.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/infinitehoax/WikiContributionReport/pkg/attribution"
	"github.com/infinitehoax/WikiContributionReport/pkg/config"
	"github.com/infinitehoax/WikiContributionReport/pkg/histcache"
	"github.com/infinitehoax/WikiContributionReport/pkg/observability"
	"github.com/infinitehoax/WikiContributionReport/pkg/report"
	"github.com/infinitehoax/WikiContributionReport/pkg/version"
	"github.com/infinitehoax/WikiContributionReport/pkg/wiki"
)

// Output formats accepted by --format.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// ErrUnknownFormat is returned when --format names an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format (expected html, json, yaml or text)")

// historyFetcher fetches the full revision history of a page.
type historyFetcher interface {
	Revisions(ctx context.Context, title string) (*wiki.PageHistory, error)
}

// fetcherFactory builds a history fetcher for the configured site.
type fetcherFactory func(cfg config.WikiConfig, logger *slog.Logger) (historyFetcher, error)

// ReportCommand holds configuration and dependencies for the report command.
type ReportCommand struct {
	configPath string
	site       string
	format     string
	output     string
	noCache    bool
	noChart    bool

	newFetcher fetcherFactory
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	return newReportCommandWithDeps(defaultFetcher)
}

func newReportCommandWithDeps(newFetcher fetcherFactory) *cobra.Command {
	rc := &ReportCommand{
		format:     FormatHTML,
		newFetcher: newFetcher,
	}

	cmd := &cobra.Command{
		Use:   "report <page title>",
		Short: "Build a per-author contribution report for a wiki page",
		Long: `Report fetches the full revision history of a wiki page, attributes
byte-level additions and removals to their authors and renders a ranked
contribution report.`,
		Args: cobra.ExactArgs(1),
		RunE: rc.run,
	}

	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&rc.format, "format", FormatHTML, "Output format: html, json, yaml, text")
	cmd.Flags().StringVar(&rc.site, "site", "", "MediaWiki site hostname (overrides config)")
	cmd.Flags().StringVar(&rc.configPath, "config", "", "Config file path")
	cmd.Flags().BoolVar(&rc.noCache, "no-cache", false, "Bypass the revision history cache")
	cmd.Flags().BoolVar(&rc.noChart, "no-chart", false, "Omit the share chart from HTML output")

	return cmd
}

func (rc *ReportCommand) run(cmd *cobra.Command, args []string) error {
	title := args[0]

	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return err
	}

	rc.applyOverrides(cfg)

	providers, err := observability.Init(buildObservabilityConfig(cfg))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Error("telemetry shutdown failed", slog.Any("error", shutdownErr))
		}
	}()

	metrics, err := observability.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	ctx, span := providers.Tracer.Start(cmd.Context(), "report",
		trace.WithAttributes(
			attribute.String("wiki.site", cfg.Wiki.Site),
			attribute.String("wiki.page", title),
			attribute.String("report.format", rc.format),
		))
	defer span.End()

	summary, resolvedTitle, err := rc.buildSummary(ctx, cfg, title, providers.Logger, metrics)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	if summary.NoContentAdded() {
		providers.Logger.WarnContext(ctx, "no text was ever added to the page",
			slog.String("page", resolvedTitle))
	}

	page := report.NewPage(resolvedTitle, cfg.Wiki.Site, summary)
	page.ChartLimit = cfg.Report.ChartLimit

	if rc.noChart {
		page.ChartLimit = 0
	}

	err = rc.writeReport(cmd.OutOrStdout(), page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	metrics.RecordReport(ctx, rc.format)
	providers.Logger.InfoContext(ctx, "report written",
		slog.String("page", resolvedTitle),
		slog.String("format", rc.format),
		slog.Int("authors", len(summary.Authors)))

	return nil
}

func (rc *ReportCommand) applyOverrides(cfg *config.Config) {
	if rc.site != "" {
		cfg.Wiki.Site = rc.site
	}

	if rc.noCache {
		cfg.Cache.Enabled = false
	}
}

// buildSummary loads the page history (from cache when fresh) and aggregates
// per-author statistics. It returns the summary together with the normalized
// page title reported by the API.
func (rc *ReportCommand) buildSummary(
	ctx context.Context,
	cfg *config.Config,
	title string,
	logger *slog.Logger,
	metrics *observability.PipelineMetrics,
) (attribution.Summary, string, error) {
	history, err := rc.loadHistory(ctx, cfg, title, logger, metrics)
	if err != nil {
		return attribution.Summary{}, "", err
	}

	deltas := attribution.ComputeDeltas(history.Revisions)
	summary := attribution.Aggregate(deltas)

	return summary, history.Title, nil
}

func (rc *ReportCommand) loadHistory(
	ctx context.Context,
	cfg *config.Config,
	title string,
	logger *slog.Logger,
	metrics *observability.PipelineMetrics,
) (*wiki.PageHistory, error) {
	var cache *histcache.Cache

	if cfg.Cache.Enabled {
		cache = histcache.New(resolveCacheDir(cfg.Cache.Directory), cfg.Cache.TTL)

		cached, cacheErr := cache.Load(cfg.Wiki.Site, title)
		if cacheErr == nil {
			metrics.RecordCacheHit(ctx, cfg.Wiki.Site)
			logger.DebugContext(ctx, "history cache hit",
				slog.String("page", title), slog.Int("revisions", len(cached.Revisions)))

			return cached, nil
		}

		metrics.RecordCacheMiss(ctx, cfg.Wiki.Site)
	}

	fetcher, err := rc.newFetcher(cfg.Wiki, logger)
	if err != nil {
		return nil, fmt.Errorf("create wiki client: %w", err)
	}

	startedAt := time.Now()

	history, err := fetcher.Revisions(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %q: %w", title, err)
	}

	metrics.RecordFetch(ctx, cfg.Wiki.Site, len(history.Revisions), time.Since(startedAt))

	if cache != nil {
		keys := []string{title}
		if history.Title != title {
			// Key both spellings: the entry stays reachable under the
			// requested title and under the API-normalized one.
			keys = append(keys, history.Title)
		}

		for _, key := range keys {
			storeErr := cache.Store(cfg.Wiki.Site, key, history)
			if storeErr != nil {
				// A failed cache write costs a refetch next run, nothing more.
				logger.WarnContext(ctx, "history cache write failed", slog.Any("error", storeErr))
			}
		}
	}

	return history, nil
}

// writeReport renders the page in the selected format to --output or stdout.
// The format is validated before the output file is created so an unknown
// format never truncates an existing file.
func (rc *ReportCommand) writeReport(stdout io.Writer, page *report.Page) error {
	var render func(io.Writer) error

	switch rc.format {
	case FormatHTML:
		render = page.Render
	case FormatJSON:
		render = page.WriteJSON
	case FormatYAML:
		render = page.WriteYAML
	case FormatText:
		render = page.WriteText
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, rc.format)
	}

	writer := stdout

	if rc.output != "" {
		file, err := os.Create(rc.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}

		defer file.Close()

		writer = file
	}

	return render(writer)
}

// resolveCacheDir falls back to the user cache directory when unset.
func resolveCacheDir(configured string) string {
	if configured != "" {
		return configured
	}

	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "wikireport")
	}

	return filepath.Join(base, "wikireport")
}

func buildObservabilityConfig(cfg *config.Config) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogLevel = cfg.Logging.SlogLevel()
	obsCfg.LogJSON = cfg.Logging.JSON()

	return obsCfg
}

func defaultFetcher(cfg config.WikiConfig, logger *slog.Logger) (historyFetcher, error) {
	return wiki.NewClient(cfg.Site, cfg.UserAgent,
		wiki.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		wiki.WithLogger(logger),
	)
}
