package ingest

import "matterdesk/api/internal/matter"

// Mode selects how an import lands in the existing record set.
type Mode string

const (
	// ModeAppend keeps the existing records and appends candidates that are
	// not duplicates of something already stored.
	ModeAppend Mode = "append"
	// ModeReplace discards the existing records entirely.
	ModeReplace Mode = "replace"
)

// ParseMode maps arbitrary caller input to a mode, defaulting to append.
func ParseMode(s string) Mode {
	if s == string(ModeReplace) {
		return ModeReplace
	}
	return ModeAppend
}

type dedupKey struct {
	Ref          string
	Counterparty string
	DateReceived string
}

// Merge combines candidate records with the existing store content and
// returns the final set plus imported/skipped counts.
//
// In append mode a candidate is a duplicate iff its exact
// (Ref, Counterparty, DateReceived) triple appears in the existing set.
// The comparison is deliberately exact: no case folding, no whitespace
// normalization. Duplicates are dropped, never used to patch the record
// they collide with, and two identical candidates in one batch both pass
// because the seen-set is built from the existing records only.
func Merge(existing, candidates []matter.Matter, mode Mode) (final []matter.Matter, imported, skipped int) {
	if mode == ModeReplace {
		return candidates, len(candidates), 0
	}

	seen := make(map[dedupKey]struct{}, len(existing))
	for _, m := range existing {
		seen[dedupKey{m.Ref, m.Counterparty, m.DateReceived}] = struct{}{}
	}

	final = append(final, existing...)
	for _, c := range candidates {
		if _, dup := seen[dedupKey{c.Ref, c.Counterparty, c.DateReceived}]; dup {
			skipped++
			continue
		}
		final = append(final, c)
		imported++
	}
	return final, imported, skipped
}
