package search

import (
	"log"

	"matterdesk/api/internal/matter"
)

// Service is the facade that tries Meilisearch first and falls back to an
// in-memory scan of the matter set.
type Service struct {
	meili *Meili
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured; every query then uses the scan path.
func NewService(meili *Meili) *Service {
	return &Service{meili: meili}
}

// Search tries Meilisearch if healthy, otherwise scans the given matters.
func (s *Service) Search(q Query, matters []matter.Matter) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to scan: %v", err)
	}

	results, total := Scan(matters, q)
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexMatter indexes a matter (fire-and-forget to Meilisearch).
func (s *Service) IndexMatter(record MatterRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexMatter(record); err != nil {
			log.Printf("search: index matter %s: %v", record.ID, err)
		}
	}()
}

// ReindexAll pushes the whole matter set to Meilisearch. Called at startup
// and after a bulk import replaces the set.
func (s *Service) ReindexAll(records []MatterRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexMatters(records); err != nil {
			log.Printf("search: reindex matters: %v", err)
		}
	}()
}

// DeleteMatter removes a matter from the search index (fire-and-forget).
func (s *Service) DeleteMatter(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteMatter(id); err != nil {
			log.Printf("search: delete matter %s: %v", id, err)
		}
	}()
}

// RecordFor converts a matter into its indexable form.
func RecordFor(m matter.Matter) MatterRecord {
	return MatterRecord{
		ID:            m.ID,
		Ref:           m.Ref,
		GroupEntity:   m.GroupEntity,
		Counterparty:  m.Counterparty,
		ContractName:  m.ContractName,
		ContractType:  m.ContractType,
		InternalDept:  m.InternalDept,
		Stage:         m.Stage,
		OverallStatus: m.OverallStatus,
		Owner:         m.Owner,
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
