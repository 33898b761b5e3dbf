package render

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestStoreSaveDerivedName(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "outputs"))
	if err != nil {
		t.Fatal(err)
	}

	path, err := store.Save(sampleWordDoc(), FormatJSON, "")
	if err != nil {
		t.Fatal(err)
	}
	name := filepath.Base(path)
	if ok, _ := regexp.MatchString(`^report_\d{8}_\d{6}\.json$`, name); !ok {
		t.Fatalf("derived name = %q", name)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestStoreSaveCustomName(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path, err := store.Save(sampleWordDoc(), FormatMarkdown, "summary")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "summary.md" {
		t.Fatalf("path = %q", path)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "# report.docx") {
		t.Errorf("content = %q", out[:40])
	}
}

func TestStoreSaveStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "outputs"))
	if err != nil {
		t.Fatal(err)
	}

	path, err := store.Save(sampleWordDoc(), FormatText, "../escape")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != store.Dir() {
		t.Fatalf("saved outside store: %q", path)
	}
	if filepath.Base(path) != "escape.txt" {
		t.Fatalf("name = %q", filepath.Base(path))
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	older, err := store.Save(sampleWordDoc(), FormatJSON, "older")
	if err != nil {
		t.Fatal(err)
	}
	newer, err := store.Save(sampleWordDoc(), FormatJSON, "newer")
	if err != nil {
		t.Fatal(err)
	}
	// Explicit mtimes, saves land within the same instant otherwise.
	base := time.Now().Add(-time.Hour)
	os.Chtimes(older, base, base)
	os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute))

	outputs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 2 {
		t.Fatalf("outputs = %+v", outputs)
	}
	if outputs[0].Filename != "newer.json" || outputs[1].Filename != "older.json" {
		t.Errorf("order = %s, %s", outputs[0].Filename, outputs[1].Filename)
	}
	if outputs[0].Format != "json" {
		t.Errorf("format = %q", outputs[0].Format)
	}
	if outputs[0].SizeBytes == 0 {
		t.Error("size not recorded")
	}
}

func TestStoreDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(sampleWordDoc(), FormatJSON, "doomed"); err != nil {
		t.Fatal(err)
	}

	deleted, err := store.Delete("doomed.json")
	if err != nil || !deleted {
		t.Fatalf("delete = %v, %v", deleted, err)
	}
	deleted, err = store.Delete("doomed.json")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("second delete should report false")
	}
}

func TestStoreClear(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a", "b", "c"} {
		if _, err := store.Save(sampleWordDoc(), FormatText, name); err != nil {
			t.Fatal(err)
		}
	}

	count, err := store.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("cleared = %d, want 3", count)
	}
	outputs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 0 {
		t.Fatalf("outputs after clear = %+v", outputs)
	}
}

func TestStoreGet(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	saved, err := store.Save(sampleWordDoc(), FormatCSV, "kept")
	if err != nil {
		t.Fatal(err)
	}

	path, ok := store.Get("kept.csv")
	if !ok || path != saved {
		t.Fatalf("get = %q, %v", path, ok)
	}
	if _, ok := store.Get("absent.csv"); ok {
		t.Error("absent file reported present")
	}
}
