package search

import (
	"strings"

	"matterdesk/api/internal/matter"
)

// Scan is the fallback search: a case-insensitive substring match over every
// field of every matter. Fast enough for the data sizes this tracker holds.
func Scan(matters []matter.Matter, q Query) ([]Result, int) {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	var hits []matter.Matter
	if needle == "" {
		hits = matters
	} else {
		for _, m := range matters {
			if matterContains(m, needle) {
				hits = append(hits, m)
			}
		}
	}

	total := len(hits)
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	end := offset + limit
	if end > total {
		end = total
	}

	results := make([]Result, 0, end-offset)
	for _, m := range hits[offset:end] {
		results = append(results, Result{
			ID:           m.ID,
			Ref:          m.Ref,
			Counterparty: m.Counterparty,
			ContractName: m.ContractName,
			Owner:        m.Owner,
			Stage:        m.Stage,
			Snippet:      firstNonBlank(m.ContractName, m.Counterparty),
		})
	}
	return results, total
}

func matterContains(m matter.Matter, needle string) bool {
	for _, f := range matter.Fields {
		if strings.Contains(strings.ToLower(m.Get(f)), needle) {
			return true
		}
	}
	return false
}
