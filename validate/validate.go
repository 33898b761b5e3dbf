// CLAUDE:SUMMARY Pre-parse file validation — existence, size cap, extension allowlist, magic-byte content sniff.
// Package validate rejects files before any parser touches them. Checks
// run in a fixed order and the first failure wins, so callers get one
// actionable error rather than a bundle.
package validate

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/parse"
)

// MaxFileSize caps accepted inputs. Oversized uploads are rejected
// before reading any content.
const MaxFileSize = 50 << 20

// File runs the full validation chain on path and reports the detected
// file family on success.
func File(path string) (parse.FileType, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", parse.Errorf(parse.KindNotFound, "file not found: %s", path)
	}
	if !info.Mode().IsRegular() {
		return "", parse.Errorf(parse.KindNotFound, "not a regular file: %s", path)
	}
	if info.Size() == 0 {
		return "", parse.Errorf(parse.KindEmptyFile, "file is empty: %s", path)
	}
	if info.Size() > MaxFileSize {
		return "", parse.Errorf(parse.KindSizeExceeded,
			"file too large: %d bytes (limit %d)", info.Size(), int64(MaxFileSize))
	}

	ext := strings.ToLower(filepath.Ext(path))
	family, ok := parse.FamilyForExtension(ext)
	if !ok {
		return "", parse.Errorf(parse.KindUnsupportedExtension,
			"unsupported extension %q (supported: %s)", ext,
			strings.Join(parse.SupportedExtensions(), ", "))
	}

	if err := checkContent(path, ext, family); err != nil {
		return "", err
	}
	return family, nil
}

// checkContent sniffs leading bytes and rejects files whose content
// belongs to a different family than their extension claims. Unknown
// signatures pass: plenty of legitimate producers write unusual
// preambles and the parser will surface its own error if the content
// is junk.
func checkContent(path, ext string, family parse.FileType) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open for sniffing: %w", err)
	}
	defer f.Close()

	head := make([]byte, 8)
	n, _ := f.Read(head)
	head = head[:n]

	sniffed := sniffFamily(path, head)
	if sniffed == "" || sniffed == family {
		return nil
	}
	// OLE containers are the legacy form of all three Office families,
	// so a .doc/.xls/.ppt extension is never contradicted by one.
	if sniffed == familyOLE && family != parse.TypePDF {
		return nil
	}
	return parse.Errorf(parse.KindContentTypeMismatch,
		"content looks like %s but extension %q says %s", sniffed, ext, family)
}

const familyOLE = parse.FileType("ole")

var (
	magicPDF = []byte("%PDF")
	magicZip = []byte("PK\x03\x04")
	magicOLE = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// sniffFamily classifies head bytes into a file family. Zip containers
// are probed further by entry prefix since docx, xlsx and pptx all share
// the same signature.
func sniffFamily(path string, head []byte) parse.FileType {
	switch {
	case bytes.HasPrefix(head, magicPDF):
		return parse.TypePDF
	case bytes.HasPrefix(head, magicOLE):
		return familyOLE
	case bytes.HasPrefix(head, magicZip):
		return sniffZipFamily(path)
	}
	return ""
}

func sniffZipFamily(path string) parse.FileType {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return ""
	}
	defer zr.Close()
	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return parse.TypeWord
		case strings.HasPrefix(f.Name, "xl/"):
			return parse.TypeExcel
		case strings.HasPrefix(f.Name, "ppt/"):
			return parse.TypePowerPoint
		}
	}
	return ""
}
