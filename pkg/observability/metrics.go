package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRevisionsFetched = "wikireport.revisions.fetched.total"
	metricFetchDuration    = "wikireport.fetch.duration.seconds"
	metricCacheHits        = "wikireport.cache.hits.total"
	metricCacheMisses      = "wikireport.cache.misses.total"
	metricReportsRendered  = "wikireport.reports.rendered.total"

	attrSite   = "site"
	attrFormat = "format"
)

// fetchBucketBoundaries covers 100ms to 600s. A short page is a single API
// call; a popular page pages through hundreds of continuation batches.
var fetchBucketBoundaries = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// PipelineMetrics holds the OTel instruments for the fetch-and-report pipeline.
type PipelineMetrics struct {
	revisionsFetched metric.Int64Counter
	fetchDuration    metric.Float64Histogram
	cacheHits        metric.Int64Counter
	cacheMisses      metric.Int64Counter
	reportsRendered  metric.Int64Counter
}

// NewPipelineMetrics creates pipeline metric instruments from the given meter.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	revisions, err := mt.Int64Counter(metricRevisionsFetched,
		metric.WithDescription("Total number of revisions fetched"),
		metric.WithUnit("{revision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRevisionsFetched, err)
	}

	duration, err := mt.Float64Histogram(metricFetchDuration,
		metric.WithDescription("Page history fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(fetchBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFetchDuration, err)
	}

	hits, err := mt.Int64Counter(metricCacheHits,
		metric.WithDescription("Total number of history cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheHits, err)
	}

	misses, err := mt.Int64Counter(metricCacheMisses,
		metric.WithDescription("Total number of history cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheMisses, err)
	}

	rendered, err := mt.Int64Counter(metricReportsRendered,
		metric.WithDescription("Total number of reports rendered"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReportsRendered, err)
	}

	return &PipelineMetrics{
		revisionsFetched: revisions,
		fetchDuration:    duration,
		cacheHits:        hits,
		cacheMisses:      misses,
		reportsRendered:  rendered,
	}, nil
}

// RecordFetch records a completed history fetch against the source site.
func (pm *PipelineMetrics) RecordFetch(ctx context.Context, site string, revisions int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrSite, site))

	pm.revisionsFetched.Add(ctx, int64(revisions), attrs)
	pm.fetchDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCacheHit increments the cache hit counter.
func (pm *PipelineMetrics) RecordCacheHit(ctx context.Context, site string) {
	pm.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String(attrSite, site)))
}

// RecordCacheMiss increments the cache miss counter.
func (pm *PipelineMetrics) RecordCacheMiss(ctx context.Context, site string) {
	pm.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String(attrSite, site)))
}

// RecordReport increments the rendered report counter for the output format.
func (pm *PipelineMetrics) RecordReport(ctx context.Context, format string) {
	pm.reportsRendered.Add(ctx, 1, metric.WithAttributes(attribute.String(attrFormat, format)))
}
