// ABOUTME: Field values with optional XML attributes and their legacy string encoding
// ABOUTME: Encode/Decode keep the plain-text vs JSON {text, attributes} wire format

package field

import (
	"bytes"
	"encoding/json"
	"maps"
	"strings"
)

// Value is the content of one feed field. A value with no attributes is plain
// text; a value with attributes came from an element such as
// <link href="...">Label</link>.
type Value struct {
	Text       string
	Attributes map[string]string
}

// Text builds a plain-text value.
func Text(s string) Value {
	return Value{Text: strings.TrimSpace(s)}
}

// WithAttributes builds a value carrying attributes. An empty attribute map
// yields a plain-text value.
func WithAttributes(text string, attrs map[string]string) Value {
	v := Value{Text: strings.TrimSpace(text)}
	if len(attrs) > 0 {
		v.Attributes = maps.Clone(attrs)
	}
	return v
}

// Attributed reports whether the value carries at least one attribute.
func (v Value) Attributed() bool {
	return len(v.Attributes) > 0
}

// IsEmpty reports whether the value has neither text nor attributes.
func (v Value) IsEmpty() bool {
	return v.Text == "" && !v.Attributed()
}

// Attr returns the named attribute, or "" when absent.
func (v Value) Attr(name string) string {
	return v.Attributes[name]
}

// Clone returns a copy that shares no attribute map with v.
func (v Value) Clone() Value {
	return Value{Text: v.Text, Attributes: maps.Clone(v.Attributes)}
}

// Equal compares text and attributes.
func (v Value) Equal(o Value) bool {
	return v.Text == o.Text && maps.Equal(v.Attributes, o.Attributes)
}

// String returns the legacy encoded form.
func (v Value) String() string {
	return Encode(v.Text, v.Attributes)
}

// MarshalJSON writes the value as its encoded string: plain text, or a JSON
// document with text and attributes.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts an encoded string produced by MarshalJSON or by Encode.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Decode(raw)
	return nil
}

type encoded struct {
	Text       *string         `json:"text"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

// Encode renders text and attributes into a single string: the trimmed text
// when there are no attributes, otherwise {"text":...,"attributes":{...}}.
func Encode(text string, attrs map[string]string) string {
	text = strings.TrimSpace(text)
	if len(attrs) == 0 {
		return text
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		Text       string            `json:"text"`
		Attributes map[string]string `json:"attributes"`
	}{text, attrs})
	if err != nil {
		return text
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Decode is the inverse of Encode. Input that is not a JSON object with a
// string "text" property is treated as plain text, so literal text that
// happens to start with "{" survives.
func Decode(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return Value{Text: trimmed}
	}

	var e encoded
	if err := json.Unmarshal([]byte(trimmed), &e); err != nil || e.Text == nil {
		return Value{Text: trimmed}
	}

	v := Value{Text: *e.Text}
	// attributes that are not an object are dropped, the text still stands
	var attrs map[string]any
	if bytes.HasPrefix(bytes.TrimSpace(e.Attributes), []byte("{")) {
		_ = json.Unmarshal(e.Attributes, &attrs)
	}
	if len(attrs) > 0 {
		v.Attributes = make(map[string]string, len(attrs))
		for k, a := range attrs {
			v.Attributes[k] = stringify(a)
		}
	}
	return v
}

// HasAttributes reports whether raw decodes to a value with attributes.
func HasAttributes(raw string) bool {
	return Decode(raw).Attributed()
}

func stringify(a any) string {
	switch t := a.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
