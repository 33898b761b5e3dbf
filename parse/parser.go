// CLAUDE:SUMMARY Parser interface, extension table, format-family lookup, and fatal error kinds.
// Package parse normalizes heterogeneous office documents (PDF, Word,
// Excel, PowerPoint) into one structured Document model.
//
// Each format has its own parser variant implementing the Parser
// interface. Construction is the open phase: it fails when the path does
// not exist or the extension is outside the variant's set. Parse is the
// extraction phase: it never fails once construction succeeded; any
// error during metadata/content/table/image extraction is captured as a
// soft error inside the returned Document and extraction continues with
// best-effort partial results.
package parse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Parser extracts normalized content from one document file.
type Parser interface {
	// Parse extracts everything into a Document. Soft failures land in
	// Document.Errors; Parse itself does not fail.
	Parse(ctx context.Context) *Document

	// ExtractText returns the plain text content only.
	ExtractText() (string, error)

	// ExtractMetadata returns document metadata only.
	ExtractMetadata() (Metadata, error)

	// ExtractTables returns the normalized tables only. Variants with no
	// native notion of tables return an empty slice.
	ExtractTables() ([]Table, error)

	// ExtractImages returns extracted image references only. Variants
	// with no native notion of images return an empty slice.
	ExtractImages() ([]Image, error)

	// FileType reports the variant's format family.
	FileType() FileType
}

// Extensions maps each format family to its accepted extensions
// (lowercase, with leading dot). The first entry is the modern format;
// legacy entries are accepted and parsed best-effort.
var Extensions = map[FileType][]string{
	TypePDF:        {".pdf"},
	TypeWord:       {".docx", ".doc"},
	TypeExcel:      {".xlsx", ".xls"},
	TypePowerPoint: {".pptx", ".ppt"},
}

// FamilyForExtension returns the format family owning ext ("" allowed,
// case-insensitive, leading dot optional).
func FamilyForExtension(ext string) (FileType, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for ft, exts := range Extensions {
		for _, e := range exts {
			if e == ext {
				return ft, true
			}
		}
	}
	return "", false
}

// FamilyForPath returns the format family for a file path.
func FamilyForPath(path string) (FileType, bool) {
	return FamilyForExtension(filepath.Ext(path))
}

// CanParse reports whether the given family's parser accepts the path's
// extension.
func CanParse(ft FileType, path string) bool {
	got, ok := FamilyForPath(path)
	return ok && got == ft
}

// SupportedExtensions returns every accepted extension across families,
// modern formats first within each family.
func SupportedExtensions() []string {
	order := []FileType{TypePDF, TypeWord, TypeExcel, TypePowerPoint}
	var out []string
	for _, ft := range order {
		out = append(out, Extensions[ft]...)
	}
	return out
}

// Kind classifies fatal pipeline failures raised before a document is
// produced. Messages stay caller-facing free text; Kind is the stable
// part.
type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindUnsupportedExtension Kind = "unsupported_extension"
	KindContentTypeMismatch  Kind = "content_type_mismatch"
	KindEmptyFile            Kind = "empty_file"
	KindSizeExceeded         Kind = "size_exceeded"
	KindNoParser             Kind = "no_parser_available"
	KindUnsupportedOutput    Kind = "unsupported_output_format"
)

// Error is a fatal pipeline failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Errorf builds a fatal Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a fatal Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == kind
}

// checkFile is the shared open-phase validation: the path must exist and
// carry one of the variant's extensions.
func checkFile(path string, ft FileType) error {
	if _, err := os.Stat(path); err != nil {
		return Errorf(KindNotFound, "file not found: %s", path)
	}
	if !CanParse(ft, path) {
		return Errorf(KindUnsupportedExtension,
			"unsupported file extension: %s (supported: %s)",
			filepath.Ext(path), strings.Join(Extensions[ft], ", "))
	}
	return nil
}
