package parse

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// readZipFile returns the contents of one named entry in an OOXML
// container.
func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// corePropertyNames maps OOXML core-property element names to the
// metadata keys surfaced on the document, in emission order.
var corePropertyNames = []struct {
	element string
	key     string
}{
	{"creator", "author"},
	{"category", "category"},
	{"description", "comments"},
	{"contentStatus", "content_status"},
	{"created", "created"},
	{"identifier", "identifier"},
	{"keywords", "keywords"},
	{"language", "language"},
	{"lastModifiedBy", "last_modified_by"},
	{"lastPrinted", "last_printed"},
	{"modified", "modified"},
	{"revision", "revision"},
	{"subject", "subject"},
	{"title", "title"},
	{"version", "version"},
}

// readCoreProperties extracts docProps/core.xml into ordered metadata.
// A missing part yields empty metadata, not an error: core properties
// are optional in the container spec.
func readCoreProperties(zr *zip.Reader) (Metadata, error) {
	meta := Metadata{}
	data, err := readZipFile(zr, "docProps/core.xml")
	if err != nil {
		return meta, nil
	}

	values := map[string]string{}
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	var current string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name.Local
		case xml.CharData:
			if current != "" {
				values[current] += string(t)
			}
		case xml.EndElement:
			current = ""
		}
	}

	for _, p := range corePropertyNames {
		if v := strings.TrimSpace(values[p.element]); v != "" {
			meta.Set(p.key, v)
		}
	}
	return meta, nil
}

// relationship is one entry of an OOXML .rels part.
type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// readRelationships parses a .rels part into id → relationship.
func readRelationships(zr *zip.Reader, name string) (map[string]relationship, error) {
	rels := map[string]relationship{}
	data, err := readZipFile(zr, name)
	if err != nil {
		return rels, nil // no relationships part
	}
	var doc struct {
		Relationships []relationship `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	for _, r := range doc.Relationships {
		rels[r.ID] = r
	}
	return rels, nil
}

// resolveRelTarget turns a relationship target relative to baseDir into
// a zip entry name (e.g. "../media/image1.png" under "ppt/slides" →
// "ppt/media/image1.png").
func resolveRelTarget(baseDir, target string) string {
	target = strings.TrimPrefix(target, "/")
	parts := strings.Split(baseDir, "/")
	for strings.HasPrefix(target, "../") {
		target = strings.TrimPrefix(target, "../")
		if len(parts) > 0 {
			parts = parts[:len(parts)-1]
		}
	}
	if len(parts) == 0 {
		return target
	}
	return strings.Join(parts, "/") + "/" + target
}
