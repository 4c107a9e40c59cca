package search

import (
	"testing"

	"matterdesk/api/internal/matter"
)

func scanFixture() []matter.Matter {
	return []matter.Matter{
		{ID: "a", Ref: "CT-001", Counterparty: "Acme Corp", ContractName: "Master Services Agreement", Stage: "Drafting", Owner: "Jane"},
		{ID: "b", Ref: "CT-002", Counterparty: "Globex", ContractName: "NDA", Stage: "Signed", Owner: "Ken", TotalCycleTime: 42},
		{ID: "c", Ref: "CT-003", Counterparty: "Initech", ContractName: "Supply Agreement", Stage: "Review", Owner: "Jane"},
	}
}

func TestScanMatchesAnyField(t *testing.T) {
	results, total := Scan(scanFixture(), Query{Text: "acme"})
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if results[0].ID != "a" {
		t.Errorf("hit = %q, want a", results[0].ID)
	}

	results, total = Scan(scanFixture(), Query{Text: "AGREEMENT"})
	if total != 2 {
		t.Fatalf("case-insensitive total = %d, want 2", total)
	}
	if results[0].ID != "a" || results[1].ID != "c" {
		t.Errorf("hits out of order: %+v", results)
	}
}

func TestScanMatchesIntFields(t *testing.T) {
	_, total := Scan(scanFixture(), Query{Text: "42"})
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
}

func TestScanEmptyQueryReturnsAll(t *testing.T) {
	results, total := Scan(scanFixture(), Query{})
	if total != 3 || len(results) != 3 {
		t.Fatalf("total = %d len = %d, want 3/3", total, len(results))
	}
}

func TestScanPagination(t *testing.T) {
	results, total := Scan(scanFixture(), Query{Limit: 2})
	if total != 3 || len(results) != 2 {
		t.Fatalf("page 1: total=%d len=%d", total, len(results))
	}
	results, _ = Scan(scanFixture(), Query{Limit: 2, Offset: 2})
	if len(results) != 1 || results[0].ID != "c" {
		t.Fatalf("page 2: %+v", results)
	}
	results, _ = Scan(scanFixture(), Query{Limit: 2, Offset: 10})
	if len(results) != 0 {
		t.Fatalf("beyond end: %+v", results)
	}
}

func TestScanNegativePagination(t *testing.T) {
	results, total := Scan(scanFixture(), Query{Text: "ct-", Offset: -1})
	if total != 3 || len(results) != 3 {
		t.Fatalf("negative offset: total=%d len=%d", total, len(results))
	}
	results, _ = Scan(scanFixture(), Query{Limit: -5})
	if len(results) != 3 {
		t.Fatalf("negative limit: %+v", results)
	}
	results, _ = Scan(scanFixture(), Query{Limit: -1, Offset: -1})
	if len(results) != 3 {
		t.Fatalf("both negative: %+v", results)
	}
}
