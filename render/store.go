// CLAUDE:SUMMARY Output persistence — timestamped save, list, delete, clear under one directory.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/parse"
)

// Store persists rendered outputs under a single flat directory.
type Store struct {
	dir string
}

// NewStore opens (and creates if needed) the output directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Save renders doc and writes it into the store. An empty name derives
// one from the source filename plus a timestamp, so repeated saves of
// the same document do not overwrite each other.
func (s *Store) Save(doc *parse.Document, format Format, name string) (string, error) {
	out, err := Render(doc, format)
	if err != nil {
		return "", err
	}

	if name == "" {
		base := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
		if base == "" {
			base = "output"
		}
		name = base + "_" + time.Now().Format("20060102_150405")
	}
	name = filepath.Base(name) // no path traversal through custom names

	path := filepath.Join(s.dir, name+extensions[format])
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return path, nil
}

// OutputInfo describes one saved output file.
type OutputInfo struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified"`
	Format    string    `json:"format"`
}

// List returns the saved outputs, most recently modified first.
func (s *Store) List() ([]OutputInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	outputs := make([]OutputInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		outputs = append(outputs, OutputInfo{
			Filename:  e.Name(),
			Path:      filepath.Join(s.dir, e.Name()),
			SizeBytes: info.Size(),
			Modified:  info.ModTime(),
			Format:    strings.TrimPrefix(filepath.Ext(e.Name()), "."),
		})
	}
	sort.Slice(outputs, func(i, j int) bool {
		return outputs[i].Modified.After(outputs[j].Modified)
	})
	return outputs, nil
}

// Delete removes one output file. It reports false when the file does
// not exist.
func (s *Store) Delete(name string) (bool, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete output: %w", err)
	}
	return true, nil
}

// Clear removes every output file and returns how many were deleted.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read output dir: %w", err)
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return count, fmt.Errorf("delete %s: %w", e.Name(), err)
		}
		count++
	}
	return count, nil
}

// Get returns the path to a saved output, or false when absent.
func (s *Store) Get(name string) (string, bool) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
