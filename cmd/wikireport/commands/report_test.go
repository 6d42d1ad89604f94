package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinitehoax/WikiContributionReport/pkg/config"
	"github.com/infinitehoax/WikiContributionReport/pkg/wiki"
)

type stubFetcher struct {
	history *wiki.PageHistory
	err     error
}

func (s *stubFetcher) Revisions(_ context.Context, _ string) (*wiki.PageHistory, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.history, nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func sampleHistory() *wiki.PageHistory {
	return &wiki.PageHistory{
		Title: "Samsung Galaxy XR",
		Revisions: []wiki.Revision{
			{User: strPtr("A"), Size: intPtr(100)},
			{User: strPtr("B"), Size: intPtr(150)},
			{User: strPtr("A"), Size: intPtr(120)},
		},
	}
}

func newTestCommand(fetcher historyFetcher) (*bytes.Buffer, *bytes.Buffer, func(args ...string) error) {
	factory := func(_ config.WikiConfig, _ *slog.Logger) (historyFetcher, error) {
		return fetcher, nil
	}

	cmd := newReportCommandWithDeps(factory)

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	return &stdout, &stderr, func(args ...string) error {
		cmd.SetArgs(args)

		return cmd.Execute()
	}
}

func TestReport_JSONToStdout(t *testing.T) {
	stdout, _, execute := newTestCommand(&stubFetcher{history: sampleHistory()})

	err := execute("Samsung Galaxy XR", "--format", "json", "--no-cache")

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), `"subject": "Samsung Galaxy XR"`)
	assert.Contains(t, stdout.String(), `"author": "A"`)
	assert.Contains(t, stdout.String(), `"total_added": 150`)
}

func TestReport_HTMLDefaultFormat(t *testing.T) {
	stdout, _, execute := newTestCommand(&stubFetcher{history: sampleHistory()})

	err := execute("Samsung Galaxy XR", "--no-cache")

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "<!DOCTYPE html>")
	assert.Contains(t, stdout.String(), "66.67%")
}

func TestReport_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	stdout, _, execute := newTestCommand(&stubFetcher{history: sampleHistory()})

	err := execute("Samsung Galaxy XR", "--no-cache", "--output", path)

	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	written, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(written), "Samsung Galaxy XR")
}

func TestReport_UnknownFormat(t *testing.T) {
	_, _, execute := newTestCommand(&stubFetcher{history: sampleHistory()})

	err := execute("Samsung Galaxy XR", "--no-cache", "--format", "pdf")

	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReport_UnknownFormatLeavesNoOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")

	_, _, execute := newTestCommand(&stubFetcher{history: sampleHistory()})

	err := execute("Samsung Galaxy XR", "--no-cache", "--format", "pdf", "--output", path)

	require.ErrorIs(t, err, ErrUnknownFormat)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "output file must not be created for an unknown format")
}

func TestReport_FetchErrorPropagates(t *testing.T) {
	_, _, execute := newTestCommand(&stubFetcher{err: wiki.ErrPageMissing})

	err := execute("No Such Page", "--no-cache")

	require.ErrorIs(t, err, wiki.ErrPageMissing)
}

func TestReport_CacheRoundTrip(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	t.Setenv("WIKIREPORT_CACHE_DIRECTORY", cacheDir)

	_, _, execute := newTestCommand(&stubFetcher{history: sampleHistory()})

	err := execute("Samsung Galaxy XR", "--format", "json")
	require.NoError(t, err)

	// Second run must be served from the cache; the fetcher now fails.
	cachedOut, _, executeAgain := newTestCommand(&stubFetcher{err: errors.New("network down")})

	err = executeAgain("Samsung Galaxy XR", "--format", "json")

	require.NoError(t, err)
	assert.Contains(t, cachedOut.String(), `"author": "A"`)
}

func TestReport_CacheKeyedByNormalizedTitle(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	t.Setenv("WIKIREPORT_CACHE_DIRECTORY", cacheDir)

	history := sampleHistory()
	history.Title = "Samsung Galaxy XR"

	_, _, execute := newTestCommand(&stubFetcher{history: history})

	err := execute("samsung galaxy XR", "--format", "json")
	require.NoError(t, err)

	// A later run using the normalized spelling hits the cache; the fetcher
	// now fails to prove no refetch happens.
	cachedOut, _, executeAgain := newTestCommand(&stubFetcher{err: errors.New("network down")})

	err = executeAgain("Samsung Galaxy XR", "--format", "json")

	require.NoError(t, err)
	assert.Contains(t, cachedOut.String(), `"author": "A"`)
}

func TestReport_UsesNormalizedTitle(t *testing.T) {
	history := sampleHistory()
	history.Title = "Samsung Galaxy XR"

	stdout, _, execute := newTestCommand(&stubFetcher{history: history})

	err := execute("samsung galaxy XR", "--no-cache", "--format", "text")

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Samsung Galaxy XR")
}
