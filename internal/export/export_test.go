package export

import (
	"strings"
	"testing"
	"time"

	"matterdesk/api/internal/matter"
)

func TestRenderRegisterHTML(t *testing.T) {
	html, err := RenderRegisterHTML(TemplateData{
		Title:       "Matters Register",
		GeneratedAt: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Total:       2,
		OpenCount:   1,
		Matters: []matter.Matter{
			{Ref: "CT-001", DateReceived: "2024-01-05", Counterparty: "Acme Corp", ContractName: "MSA", Stage: "Drafting", Owner: "Jane"},
			{Ref: "CT-002", Counterparty: "Globex", OverallStatus: "Closed"},
		},
	})
	if err != nil {
		t.Fatalf("RenderRegisterHTML: %v", err)
	}

	for _, want := range []string{
		"Matters Register",
		"Mar 15, 2024 10:30",
		"2 matters, 1 open",
		"CT-001",
		"Acme Corp",
		"Globex",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRenderRegisterHTMLEscapes(t *testing.T) {
	html, err := RenderRegisterHTML(TemplateData{
		Title: "Matters Register",
		Matters: []matter.Matter{
			{Ref: "CT-001", Counterparty: "<script>alert(1)</script>"},
		},
	})
	if err != nil {
		t.Fatalf("RenderRegisterHTML: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("counterparty was not HTML-escaped")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Matters Register":  "Matters-Register",
		"a/b\\c":            "abc",
		"":                  "register",
		strings.Repeat("x", 80): strings.Repeat("x", 50),
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	got := percentEncodeForDataURL("a b&c")
	if got != "a%20b%26c" {
		t.Errorf("percentEncodeForDataURL = %q", got)
	}
}
