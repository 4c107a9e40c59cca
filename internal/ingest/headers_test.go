package ingest

import (
	"testing"

	"matterdesk/api/internal/matter"
)

func TestReconcileHeadersAliases(t *testing.T) {
	mapping := ReconcileHeaders([]string{"Reference", "Received", "Vendor"})

	want := map[string]string{
		"Reference": matter.FieldRef,
		"Received":  matter.FieldDateReceived,
		"Vendor":    matter.FieldCounterparty,
	}
	if len(mapping) != len(want) {
		t.Fatalf("mapping = %v, want %v", mapping, want)
	}
	for col, field := range want {
		if mapping[col] != field {
			t.Errorf("mapping[%q] = %q, want %q", col, mapping[col], field)
		}
	}
}

func TestReconcileHeadersCaseAndTrim(t *testing.T) {
	mapping := ReconcileHeaders([]string{"  overall status ", "LAWYER"})
	if mapping["  overall status "] != matter.FieldOverallStatus {
		t.Errorf("trimmed case-insensitive alias not mapped: %v", mapping)
	}
	if mapping["LAWYER"] != matter.FieldLegal {
		t.Errorf("uppercase alias not mapped: %v", mapping)
	}
}

func TestReconcileHeadersFuzzy(t *testing.T) {
	mapping := ReconcileHeaders([]string{"days_with_legal!", "Total-Cycle-Time", "who.with"})
	if mapping["days_with_legal!"] != matter.FieldDaysWithLegal {
		t.Errorf("squashed match failed for days_with_legal!: %v", mapping)
	}
	if mapping["Total-Cycle-Time"] != matter.FieldTotalCycleTime {
		t.Errorf("squashed match failed for Total-Cycle-Time: %v", mapping)
	}
	if mapping["who.with"] != matter.FieldWhoWith {
		t.Errorf("squashed match failed for who.with: %v", mapping)
	}
}

func TestReconcileHeadersDropsUnknown(t *testing.T) {
	mapping := ReconcileHeaders([]string{"Ref", "Completely Unrelated Column"})
	if _, ok := mapping["Completely Unrelated Column"]; ok {
		t.Errorf("unknown column should stay unmapped: %v", mapping)
	}
	if mapping["Ref"] != matter.FieldRef {
		t.Errorf("Ref not mapped: %v", mapping)
	}
}

func TestReconcileHeadersTableOrderWins(t *testing.T) {
	// "Legal" is an alias of both the Legal field and Owner; the Legal field
	// comes first in the table and must win.
	mapping := ReconcileHeaders([]string{"Legal"})
	if mapping["Legal"] != matter.FieldLegal {
		t.Errorf("mapping[Legal] = %q, want %q", mapping["Legal"], matter.FieldLegal)
	}
}

func TestSquash(t *testing.T) {
	cases := map[string]string{
		"Days_with_Legal": "dayswithlegal",
		"  Who With ":     "whowith",
		"REF#":            "ref",
		"--":              "",
	}
	for in, want := range cases {
		if got := Squash(in); got != want {
			t.Errorf("Squash(%q) = %q, want %q", in, got, want)
		}
	}
}
