package gitrepo

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotAndHistory(t *testing.T) {
	svc := New(filepath.Join(t.TempDir(), "history"))

	first, err := svc.Snapshot("import matters", "Jane Smith", map[string][]byte{
		"matters.json": []byte(`[{"id":"a"}]` + "\n"),
		"users.json":   []byte(`[]` + "\n"),
	})
	if err != nil {
		t.Fatalf("first Snapshot: %v", err)
	}
	if first.Hash == "" || first.Author != "Jane Smith" {
		t.Fatalf("unexpected commit info: %+v", first)
	}

	second, err := svc.Snapshot("update matter a", "Jane Smith", map[string][]byte{
		"matters.json": []byte(`[{"id":"a","Stage":"Signed"}]` + "\n"),
	})
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if second.Hash == first.Hash {
		t.Fatal("expected a new commit for changed content")
	}

	history, err := svc.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if !strings.Contains(history[0].Message, "update matter a") {
		t.Errorf("newest message = %q", history[0].Message)
	}
	if !strings.Contains(history[1].Message, "import matters") {
		t.Errorf("oldest message = %q", history[1].Message)
	}
}

func TestSnapshotNoChangesIsNoop(t *testing.T) {
	svc := New(filepath.Join(t.TempDir(), "history"))
	files := map[string][]byte{"matters.json": []byte("[]\n")}

	first, err := svc.Snapshot("save", "", files)
	if err != nil {
		t.Fatalf("first Snapshot: %v", err)
	}
	second, err := svc.Snapshot("save again", "", files)
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if second.Hash != first.Hash {
		t.Errorf("expected identical content to reuse head %s, got %s", first.Hash, second.Hash)
	}

	history, err := svc.History(0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
}

func TestHistoryWithoutRepo(t *testing.T) {
	svc := New(filepath.Join(t.TempDir(), "missing"))
	history, err := svc.History(5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d", len(history))
	}
}

func TestHistoryLimit(t *testing.T) {
	svc := New(filepath.Join(t.TempDir(), "history"))
	for i, payload := range []string{"[1]", "[1,2]", "[1,2,3]"} {
		if _, err := svc.Snapshot("save", "", map[string][]byte{"matters.json": []byte(payload)}); err != nil {
			t.Fatalf("Snapshot %d: %v", i, err)
		}
	}
	history, err := svc.History(2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
}
