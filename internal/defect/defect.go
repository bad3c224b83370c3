// Package defect tracks which catalog defects a player has reported.
package defect

import "slices"

// Outcome is the result of recording a report.
type Outcome string

const (
	OutcomeAccepted        Outcome = "accepted"
	OutcomeAlreadyReported Outcome = "already-reported"
)

// DefaultHintThreshold is how many defects must be found before hints are shown.
const DefaultHintThreshold = 3

// Record adds id to found. A repeated id leaves the set unchanged and reports
// OutcomeAlreadyReported. found is never modified in place.
func Record(found []ID, id ID) ([]ID, Outcome) {
	if slices.Contains(found, id) {
		return found, OutcomeAlreadyReported
	}
	out := make([]ID, 0, len(found)+1)
	out = append(out, found...)
	return append(out, id), OutcomeAccepted
}

// IsComplete reports whether every catalog defect has been found.
func IsComplete(found []ID) bool {
	return len(found) == CatalogSize
}

// Reset returns an empty set.
func Reset() []ID {
	return []ID{}
}

// HintsVisible reports whether hints for unfound defects should be shown.
func HintsVisible(found []ID, threshold int) bool {
	return len(found) >= threshold
}

// Normalize drops ids outside the catalog and repeated ids, keeping first-seen order.
func Normalize(ids []ID) (out []ID, dropped []ID) {
	out = make([]ID, 0, len(ids))
	for _, id := range ids {
		if !id.Valid() || slices.Contains(out, id) {
			dropped = append(dropped, id)
			continue
		}
		out = append(out, id)
	}
	return out, dropped
}
