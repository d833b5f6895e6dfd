// Package report holds the named, ordered key/value record a protocol
// produces when it finishes analysis.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Entry is one recorded value.
type Entry struct {
	Key   string
	Value any
}

// Report is an ordered set of entries. Adding an existing key replaces its
// value in place.
type Report struct {
	Name    string
	entries []Entry
}

// New returns an empty report.
func New(name string) *Report {
	return &Report{Name: name}
}

// Add records value under key.
func (r *Report) Add(key string, value any) {
	for i := range r.entries {
		if r.entries[i].Key == key {
			r.entries[i].Value = value
			return
		}
	}
	r.entries = append(r.entries, Entry{Key: key, Value: value})
}

// Get returns the value under key.
func (r *Report) Get(key string) (any, bool) {
	for _, e := range r.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Float returns the value under key as a float64.
func (r *Report) Float(key string) (float64, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	switch f := v.(type) {
	case float64:
		return f, true
	case int:
		return float64(f), true
	}
	return 0, false
}

// Keys returns the keys in insertion order.
func (r *Report) Keys() []string {
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (r *Report) Entries() []Entry {
	return slices.Clone(r.entries)
}

// MarshalJSON encodes the report as one object: "name" first, then every
// entry in insertion order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	name, err := json.Marshal(r.Name)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"name":`)
	buf.Write(name)
	for _, e := range r.entries {
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("report %s: entry %q: %w", r.Name, e.Key, err)
		}
		buf.WriteByte(',')
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object written by MarshalJSON, keeping key order.
// Values decode to the generic JSON types.
func (r *Report) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("report: expected object, got %v", tok)
	}
	out := Report{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("report: expected key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("report: entry %q: %w", key, err)
		}
		if key == "name" {
			name, ok := v.(string)
			if !ok {
				return fmt.Errorf("report: name is %T, want string", v)
			}
			out.Name = name
			continue
		}
		out.Add(key, v)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return err
	}
	*r = out
	return nil
}
