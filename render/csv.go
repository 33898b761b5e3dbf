// CLAUDE:SUMMARY CSV renderer — table export, or flattened key/value rows when a document has no tables.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/parse"
)

// renderCSV writes every table as rows (headers first when present) with
// a blank record between tables. A document without tables degrades to
// two-column Key/Value rows over its flattened fields so the export is
// never empty.
func renderCSV(doc *parse.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if len(doc.Tables) == 0 {
		if err := w.Write([]string{"Key", "Value"}); err != nil {
			return nil, err
		}
		fields, err := flattenDocument(doc)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			if err := w.Write([]string{f.key, f.value}); err != nil {
				return nil, err
			}
		}
	} else {
		for _, table := range doc.Tables {
			if len(table.Headers) > 0 {
				if err := w.Write(table.Headers); err != nil {
					return nil, err
				}
			}
			for _, row := range table.Data {
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
			if err := w.Write([]string{""}); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

type flatField struct {
	key   string
	value string
}

// flattenDocument flattens the document's JSON form into dotted-path
// key/value pairs, preserving field order. Nested objects recurse;
// arrays are emitted as their compact JSON text.
func flattenDocument(doc *parse.Document) ([]flatField, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out []flatField
	if err := flattenObject(raw, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenObject(raw json.RawMessage, prefix string, out *[]flatField) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("flatten: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		if prefix != "" {
			key = prefix + "." + key
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if len(value) > 0 && value[0] == '{' {
			if err := flattenObject(value, key, out); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, flatField{key: key, value: scalarText(value)})
	}
	return nil
}

func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 'n': // null
		return ""
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return strconv.FormatBool(b)
		}
	}
	return string(raw)
}
