package attribution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinitehoax/WikiContributionReport/pkg/attribution"
)

const percentTolerance = 1e-6

func TestAggregate_Scenario(t *testing.T) {
	t.Parallel()

	summary := attribution.Aggregate([]attribution.Delta{
		{Author: "A", Change: 100},
		{Author: "B", Change: 50},
		{Author: "A", Change: -30},
	})

	require.Len(t, summary.Authors, 2)

	a := summary.Authors[0]
	assert.Equal(t, "A", a.Author)
	assert.Equal(t, 2, a.Edits)
	assert.Equal(t, 100, a.TextAdded)
	assert.Equal(t, 30, a.TextRemoved)
	assert.InDelta(t, 100.0/150.0*100, a.Percentage, percentTolerance)

	b := summary.Authors[1]
	assert.Equal(t, "B", b.Author)
	assert.Equal(t, 1, b.Edits)
	assert.Equal(t, 50, b.TextAdded)
	assert.Equal(t, 0, b.TextRemoved)
	assert.InDelta(t, 50.0/150.0*100, b.Percentage, percentTolerance)

	assert.Equal(t, 3, summary.TotalEdits)
	assert.Equal(t, 150, summary.TotalAdded)
	assert.Equal(t, 30, summary.TotalRemoved)
	assert.False(t, summary.NoContentAdded())
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	summary := attribution.Aggregate(nil)

	assert.Empty(t, summary.Authors)
	assert.Zero(t, summary.TotalEdits)
	assert.True(t, summary.NoContentAdded())
}

func TestAggregate_NoContentAdded(t *testing.T) {
	t.Parallel()

	summary := attribution.Aggregate([]attribution.Delta{
		{Author: "A", Change: -10},
		{Author: "B", Change: 0},
		{Author: "A", Change: -5},
	})

	assert.True(t, summary.NoContentAdded())
	assert.Empty(t, summary.Authors)
	assert.Equal(t, 3, summary.TotalEdits)
	assert.Equal(t, 15, summary.TotalRemoved)
}

func TestAggregate_ZeroChangeCountsAsRemoved(t *testing.T) {
	t.Parallel()

	summary := attribution.Aggregate([]attribution.Delta{
		{Author: "A", Change: 10},
		{Author: "A", Change: 0},
	})

	require.Len(t, summary.Authors, 1)
	assert.Equal(t, 10, summary.Authors[0].TextAdded)
	assert.Equal(t, 0, summary.Authors[0].TextRemoved)
	assert.Equal(t, 2, summary.Authors[0].Edits)
}

func TestAggregate_PercentagesSumToHundred(t *testing.T) {
	t.Parallel()

	summary := attribution.Aggregate([]attribution.Delta{
		{Author: "A", Change: 7},
		{Author: "B", Change: 11},
		{Author: "C", Change: 13},
		{Author: "B", Change: -4},
		{Author: "D", Change: 29},
	})

	total := 0.0
	for _, as := range summary.Authors {
		total += as.Percentage
	}

	assert.InDelta(t, 100.0, total, percentTolerance)
}

func TestAggregate_EditsSumEqualsDeltaCount(t *testing.T) {
	t.Parallel()

	deltas := []attribution.Delta{
		{Author: "A", Change: 1},
		{Author: "B", Change: -1},
		{Author: "A", Change: 2},
		{Author: "C", Change: 0},
	}

	summary := attribution.Aggregate(deltas)

	edits := 0
	for _, as := range summary.Authors {
		edits += as.Edits
	}

	assert.Equal(t, len(deltas), edits)
	assert.Equal(t, len(deltas), summary.TotalEdits)
}

func TestAggregate_RankedDescending(t *testing.T) {
	t.Parallel()

	summary := attribution.Aggregate([]attribution.Delta{
		{Author: "small", Change: 1},
		{Author: "big", Change: 100},
		{Author: "mid", Change: 10},
	})

	require.Len(t, summary.Authors, 3)

	for i := 1; i < len(summary.Authors); i++ {
		assert.GreaterOrEqual(t,
			summary.Authors[i-1].Percentage, summary.Authors[i].Percentage)
	}

	assert.Equal(t, "big", summary.Authors[0].Author)
	assert.Equal(t, "mid", summary.Authors[1].Author)
	assert.Equal(t, "small", summary.Authors[2].Author)
}

func TestAggregate_TiesKeepFirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	summary := attribution.Aggregate([]attribution.Delta{
		{Author: "beta", Change: -3},
		{Author: "gamma", Change: 100},
		{Author: "alpha", Change: 50},
		{Author: "beta", Change: 50},
	})

	// beta and alpha tie at 50 added bytes. beta was encountered first (via
	// a removal), so it ranks ahead of alpha despite the reverse alphabetical
	// order.
	require.Len(t, summary.Authors, 3)
	assert.Equal(t, "gamma", summary.Authors[0].Author)
	assert.Equal(t, "beta", summary.Authors[1].Author)
	assert.Equal(t, "alpha", summary.Authors[2].Author)
}

func TestAggregate_ExactAuthorIdentity(t *testing.T) {
	t.Parallel()

	summary := attribution.Aggregate([]attribution.Delta{
		{Author: "Foo", Change: 10},
		{Author: "foo", Change: 10},
	})

	assert.Len(t, summary.Authors, 2)
}

func TestAggregate_Idempotent(t *testing.T) {
	t.Parallel()

	deltas := []attribution.Delta{
		{Author: "A", Change: 100},
		{Author: "B", Change: 50},
		{Author: "A", Change: -30},
	}

	first := attribution.Aggregate(deltas)
	second := attribution.Aggregate(deltas)

	assert.Equal(t, first, second)
}
