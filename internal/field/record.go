// ABOUTME: Insertion-ordered mapping from field name to Value
// ABOUTME: Backs both channel metadata and per-item records of a feed

package field

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Record holds the fields of one channel or item in document order.
// Setting an existing key replaces its value but keeps its original position,
// so repeated sibling elements collapse to the last occurrence.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Text returns the text of the value stored under key, or "".
func (r *Record) Text(key string) string {
	v, _ := r.Get(key)
	return v.Text
}

// Set stores v under key.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Delete removes key, reporting whether it was present.
func (r *Record) Delete(key string) bool {
	if r == nil {
		return false
	}
	if _, ok := r.values[key]; !ok {
		return false
	}
	delete(r.values, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
	return true
}

// Each calls fn for every field in order until fn returns false.
func (r *Record) Each(fn func(key string, v Value) bool) {
	if r == nil {
		return
	}
	for _, k := range r.keys {
		if !fn(k, r.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := NewRecord()
	r.Each(func(k string, v Value) bool {
		c.Set(k, v.Clone())
		return true
	})
	return c
}

// Equal reports whether both records hold the same keys, in the same order,
// with equal values.
func (r *Record) Equal(o *Record) bool {
	if r.Len() != o.Len() {
		return false
	}
	if !slices.Equal(r.Keys(), o.Keys()) {
		return false
	}
	for _, k := range r.keys {
		a, _ := r.Get(k)
		b, _ := o.Get(k)
		if !a.Equal(b) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of encoded field strings, keeping the
// key order of the input.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("field record must be a JSON object")
	}

	*r = Record{values: make(map[string]Value)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected field key %v", tok)
		}
		var raw *string
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if raw == nil {
			continue
		}
		v := Decode(*raw)
		if v.IsEmpty() {
			continue
		}
		r.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
