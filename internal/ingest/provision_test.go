package ingest

import (
	"testing"

	"matterdesk/api/internal/matter"
)

func TestProvisionOwnersCreatesMissing(t *testing.T) {
	existing := []matter.Owner{{ID: "u1", Name: "Dana Cho", JobTitle: "Counsel"}}
	candidates := []matter.Matter{
		{Ref: "M-1", Owner: "Dana Cho"},
		{Ref: "M-2", Owner: "Raj Patel"},
		{Ref: "M-3", Legal: "Mina Park"}, // falls back to Legal
		{Ref: "M-4"},                     // no name at all
	}

	owners, created := ProvisionOwners(existing, candidates, sequentialIDs())
	if !created {
		t.Fatal("created = false, want true")
	}
	if len(owners) != 3 {
		t.Fatalf("got %d owners, want 3: %+v", len(owners), owners)
	}
	// Existing owners keep their data.
	if owners[0].JobTitle != "Counsel" {
		t.Errorf("existing owner mutated: %+v", owners[0])
	}
	// New owners are appended in sorted name order with empty details.
	if owners[1].Name != "Mina Park" || owners[2].Name != "Raj Patel" {
		t.Errorf("new owners out of order: %+v", owners[1:])
	}
	if owners[1].JobTitle != "" || owners[1].Function != "" {
		t.Errorf("new owner should start empty: %+v", owners[1])
	}
}

func TestProvisionOwnersCaseInsensitive(t *testing.T) {
	existing := []matter.Owner{{ID: "u1", Name: "dana cho"}}
	candidates := []matter.Matter{{Ref: "M-1", Owner: "Dana Cho"}}

	owners, created := ProvisionOwners(existing, candidates, sequentialIDs())
	if created || len(owners) != 1 {
		t.Errorf("case-variant name must not create an owner: created=%v owners=%+v", created, owners)
	}
}

func TestProvisionOwnersIdempotent(t *testing.T) {
	candidates := []matter.Matter{
		{Ref: "M-1", Owner: "Raj Patel"},
		{Ref: "M-2", Owner: "raj patel"},
	}

	owners, created := ProvisionOwners(nil, candidates, sequentialIDs())
	if !created || len(owners) != 1 {
		t.Fatalf("first run: created=%v owners=%+v", created, owners)
	}

	owners, created = ProvisionOwners(owners, candidates, sequentialIDs())
	if created || len(owners) != 1 {
		t.Errorf("second run must be a no-op: created=%v owners=%+v", created, owners)
	}
}
