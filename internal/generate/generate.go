// ABOUTME: Serializes the flat Feed model back into RSS 2.0 or Atom XML
// ABOUTME: Escapes the five XML entities and rebuilds element attributes

package generate

import (
	"errors"
	"sort"
	"strings"

	"github.com/harper/rssedit/internal/field"
	"github.com/harper/rssedit/internal/models"
)

// AtomNamespace is the Atom 1.0 XML namespace.
const AtomNamespace = "http://www.w3.org/2005/Atom"

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// ErrInvalidFeed is returned for a nil feed or a feed without an item slice.
var ErrInvalidFeed = errors.New("invalid feed data: feed and items are required")

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five XML special characters with their entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Serialize renders feed as an XML document. Channel keys that name the
// repeating element ("item" for RSS, "entry" for Atom) are never emitted as
// metadata.
func Serialize(feed *models.Feed) (string, error) {
	if feed == nil || feed.Items == nil {
		return "", ErrInvalidFeed
	}

	w := &writer{}
	w.line(0, xmlDeclaration)

	if feed.FeedType == models.FeedTypeAtom {
		w.line(0, `<feed xmlns="`+AtomNamespace+`">`)
		w.record(1, feed.ChannelFields, "entry")
		for _, item := range feed.Items {
			w.line(1, "<entry>")
			w.record(2, item, "")
			w.line(1, "</entry>")
		}
		w.line(0, "</feed>")
	} else {
		w.line(0, `<rss version="2.0" xmlns:atom="`+AtomNamespace+`">`)
		w.line(1, "<channel>")
		w.record(2, feed.ChannelFields, "item")
		for _, item := range feed.Items {
			w.line(2, "<item>")
			w.record(3, item, "")
			w.line(2, "</item>")
		}
		w.line(1, "</channel>")
		w.line(0, "</rss>")
	}

	return w.b.String(), nil
}

type writer struct {
	b strings.Builder
}

func (w *writer) line(depth int, s string) {
	if w.b.Len() > 0 {
		w.b.WriteByte('\n')
	}
	w.b.WriteString(strings.Repeat("  ", depth))
	w.b.WriteString(s)
}

func (w *writer) record(depth int, rec *field.Record, reserved string) {
	rec.Each(func(key string, v field.Value) bool {
		if key == reserved || v.IsEmpty() {
			return true
		}
		w.line(depth, Element(key, v))
		return true
	})
}

// Element renders a single field as <key attrs>text</key>. Attributes are
// written in name order.
func Element(key string, v field.Value) string {
	name := Escape(key)

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)

	names := make([]string, 0, len(v.Attributes))
	for k := range v.Attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b.WriteByte(' ')
		b.WriteString(Escape(k))
		b.WriteString(`="`)
		b.WriteString(Escape(v.Attributes[k]))
		b.WriteByte('"')
	}

	b.WriteByte('>')
	b.WriteString(Escape(v.Text))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
	return b.String()
}
