// ABOUTME: Element field extraction from XML nodes into flat field records
// ABOUTME: Strips namespace prefixes and keeps attributes alongside element text

package extract

import (
	"strings"

	"github.com/harper/rssedit/internal/field"
	"github.com/harper/rssedit/internal/xmltree"
)

// Fields turns the direct child elements of n into a record keyed by local
// tag name. Children whose local name is in skip are ignored. A child with
// attributes is always kept; a child without attributes is kept only when
// its trimmed text is non-empty. Repeated names keep the last value.
func Fields(n xmltree.Node, skip ...string) *field.Record {
	rec := field.NewRecord()
	if n == nil {
		return rec
	}

	for _, child := range n.Children() {
		name := field.LocalName(child.Name())
		if name == "" || contains(skip, name) {
			continue
		}

		text := strings.TrimSpace(child.Text())
		attrs := Attributes(child)

		switch {
		case len(attrs) > 0:
			rec.Set(name, field.WithAttributes(text, attrs))
		case text != "":
			rec.Set(name, field.Text(text))
		}
	}
	return rec
}

// Attributes collects the attributes of n keyed by local name.
func Attributes(n xmltree.Node) map[string]string {
	attrs := n.Attrs()
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		name := field.LocalName(a.Name)
		if name == "" {
			continue
		}
		out[name] = a.Value
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
