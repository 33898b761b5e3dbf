package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesParentDir(t *testing.T) {
	store := openTestStore(t)
	if err := store.DB.Ping(); err != nil {
		t.Fatal(err)
	}
}

func TestRecordAssignsID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, Run{
		Filename: "report.pdf",
		FileType: "pdf",
		Duration: 340 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %+v", runs)
	}
	run := runs[0]
	if run.ID != id || run.Filename != "report.pdf" || run.FileType != "pdf" {
		t.Errorf("run = %+v", run)
	}
	if run.DurationMS != 340 {
		t.Errorf("duration_ms = %d", run.DurationMS)
	}
	if run.ParsedAt.IsZero() {
		t.Error("parsed_at not defaulted")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"first.pdf", "second.docx", "third.xlsx"} {
		_, err := store.Record(ctx, Run{
			Filename: name,
			FileType: "pdf",
			ParsedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("runs = %d", len(runs))
	}
	if runs[0].Filename != "third.xlsx" || runs[2].Filename != "first.pdf" {
		t.Errorf("order = %s, %s, %s", runs[0].Filename, runs[1].Filename, runs[2].Filename)
	}

	limited, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[0].Filename != "third.xlsx" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestRecordKeepsExplicitID(t *testing.T) {
	store := openTestStore(t)
	id, err := store.Record(context.Background(), Run{
		ID:         "fixed-id",
		Filename:   "deck.pptx",
		FileType:   "powerpoint",
		ErrorCount: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id != "fixed-id" {
		t.Fatalf("id = %q", id)
	}

	runs, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].ErrorCount != 2 {
		t.Errorf("error_count = %d", runs[0].ErrorCount)
	}
}
