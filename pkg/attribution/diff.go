// Package attribution turns a chronological revision history into ranked
// per-contributor statistics.
//
// The pipeline has two stages: ComputeDeltas converts revisions into signed
// size changes, and Aggregate folds those changes into per-author totals and
// percentage shares. Both stages are pure and total over well-formed input.
package attribution

import (
	"github.com/infinitehoax/WikiContributionReport/pkg/identity"
	"github.com/infinitehoax/WikiContributionReport/pkg/wiki"
)

// Delta is the signed change in page size contributed by one revision,
// relative to its immediate predecessor.
type Delta struct {
	Author string `json:"author" yaml:"author"`
	Change int    `json:"change" yaml:"change"`
}

// ComputeDeltas converts a chronological (oldest first) revision sequence
// into an equal-length sequence of size deltas, preserving order. The size
// preceding the first revision is defined as 0, so the first revision's
// entire size counts as added.
//
// Missing fields are defaulted here, exactly once: an absent author becomes
// identity.UnknownAuthor and an absent size becomes 0. Sizes may shrink;
// negative deltas are expected and meaningful, so no monotonicity check is
// performed.
func ComputeDeltas(revisions []wiki.Revision) []Delta {
	deltas := make([]Delta, 0, len(revisions))
	previousSize := 0

	for _, rev := range revisions {
		size := 0
		if rev.Size != nil {
			size = *rev.Size
		}

		author := identity.UnknownAuthor
		if rev.User != nil {
			author = *rev.User
		}

		deltas = append(deltas, Delta{
			Author: author,
			Change: size - previousSize,
		})

		previousSize = size
	}

	return deltas
}
