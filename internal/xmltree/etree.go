// ABOUTME: etree-backed implementation of the xmltree Node interface
// ABOUTME: Reads raw feed bytes into a document, honouring the encoding declared in the prolog

package xmltree

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Document is a parsed XML document.
type Document struct {
	doc *etree.Document
}

// Read parses data as XML. Non-UTF-8 encodings named in the XML declaration
// are converted on the fly.
func Read(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if err := checkProlog(doc); err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// checkProlog rejects top-level content etree tolerates: a second root
// element or text outside the document element.
func checkProlog(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
			if roots > 1 {
				return errors.New("xml: junk after document element <" + t.FullTag() + ">")
			}
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return errors.New("xml: text outside document element")
			}
		}
	}
	return nil
}

// ReadString parses s as XML.
func ReadString(s string) (*Document, error) {
	return Read([]byte(s))
}

// Root returns the document element, or nil for a document without one.
func (d *Document) Root() Node {
	if d == nil || d.doc == nil {
		return nil
	}
	root := d.doc.Root()
	if root == nil {
		return nil
	}
	return element{root}
}

type element struct {
	el *etree.Element
}

func (e element) Name() string {
	return e.el.FullTag()
}

func (e element) Attrs() []Attr {
	if len(e.el.Attr) == 0 {
		return nil
	}
	attrs := make([]Attr, 0, len(e.el.Attr))
	for _, a := range e.el.Attr {
		attrs = append(attrs, Attr{Name: a.FullKey(), Value: a.Value})
	}
	return attrs
}

func (e element) Text() string {
	var b strings.Builder
	collectText(e.el, &b)
	return b.String()
}

func (e element) Children() []Node {
	children := e.el.ChildElements()
	if len(children) == 0 {
		return nil
	}
	nodes := make([]Node, len(children))
	for i, c := range children {
		nodes[i] = element{c}
	}
	return nodes
}

func collectText(el *etree.Element, b *strings.Builder) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			collectText(t, b)
		}
	}
}
