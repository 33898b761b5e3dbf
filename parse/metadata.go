package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Metadata is an insertion-ordered string→string mapping. The key set is
// format-specific (author, page counts, sheet names, ...), a union across
// formats rather than a fixed schema. JSON form is a plain object whose
// keys keep emission order.
type Metadata []MetaField

// MetaField is one metadata entry.
type MetaField struct {
	Key   string
	Value string
}

// Set appends or replaces a key, keeping first-insertion order.
func (m *Metadata) Set(key, value string) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, MetaField{Key: key, Value: value})
}

// Get returns the value for key and whether it is present.
func (m Metadata) Get(key string) (string, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Len returns the number of entries.
func (m Metadata) Len() int { return len(m) }

func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("metadata: expected object, got %v", tok)
	}
	out := Metadata{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("metadata: non-string key %v", keyTok)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("metadata: value for %q: %w", key, err)
		}
		out = append(out, MetaField{Key: key, Value: val})
	}
	*m = out
	return nil
}
