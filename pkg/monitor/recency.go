package monitor

import (
	"time"

	"github.com/vanderheijden86/fsglow/pkg/watcher"
)

// Tier is the recency bucket a path falls into. It is a pure style decision;
// mapping tiers to colors is a rendering concern.
type Tier int

const (
	TierPlain Tier = iota

	// Deleted overrides everything else: dim red, struck through.
	TierDeleted

	// Created tiers, hottest first.
	TierCreatedFresh  // < 2s: bright green
	TierCreatedRecent // < 5s: green
	TierCreatedFading // < 10s: dark green

	// Modified tiers, hottest first.
	TierModifiedFresh  // < 2s: bright red
	TierModifiedRecent // < 5s: red
	TierModifiedFading // < 10s: yellow
	TierModifiedStale  // < 30s: orange
)

// Style is the computed display decision for one path.
type Style struct {
	Tier   Tier
	Strike bool
}

// Classify maps a path's event history to its display tier. Boundaries are
// strictly less-than: a file at exactly 2s falls into the <5s tier.
func Classify(path string, ledger *EventLedger, now time.Time) Style {
	if ledger.DeletedRecently(path, now) {
		return Style{Tier: TierDeleted, Strike: true}
	}

	op, ok := ledger.LatestKind(path)
	if !ok {
		return Style{Tier: TierPlain}
	}

	switch op {
	case watcher.OpCreated:
		switch {
		case ledger.IsRecent(path, 2*time.Second, now):
			return Style{Tier: TierCreatedFresh}
		case ledger.IsRecent(path, 5*time.Second, now):
			return Style{Tier: TierCreatedRecent}
		case ledger.IsRecent(path, 10*time.Second, now):
			return Style{Tier: TierCreatedFading}
		}
	case watcher.OpModified:
		switch {
		case ledger.IsRecent(path, 2*time.Second, now):
			return Style{Tier: TierModifiedFresh}
		case ledger.IsRecent(path, 5*time.Second, now):
			return Style{Tier: TierModifiedRecent}
		case ledger.IsRecent(path, 10*time.Second, now):
			return Style{Tier: TierModifiedFading}
		case ledger.IsRecent(path, 30*time.Second, now):
			return Style{Tier: TierModifiedStale}
		}
	}

	return Style{Tier: TierPlain}
}
