// ABOUTME: Minimal read-only XML tree abstraction used by the feed extractor
// ABOUTME: Exposes name, attributes, text and child elements independent of the XML library

package xmltree

// Attr is one XML attribute with its name as written in the source,
// including any namespace prefix.
type Attr struct {
	Name  string
	Value string
}

// Node is an XML element. Implementations wrap a concrete XML library so the
// extraction logic is written once against this interface.
type Node interface {
	// Name returns the qualified tag name, e.g. "media:content".
	Name() string
	// Attrs returns the element's attributes in document order.
	Attrs() []Attr
	// Text returns the concatenated character data of the element and all
	// its descendants, untrimmed.
	Text() string
	// Children returns the direct child elements in document order.
	Children() []Node
}

// Find returns the first node, in depth-first document order starting with n
// itself, for which match returns true.
func Find(n Node, match func(Node) bool) Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for _, c := range n.Children() {
		if found := Find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// ChildrenWhere returns the direct children of n for which match returns true.
func ChildrenWhere(n Node, match func(Node) bool) []Node {
	var out []Node
	for _, c := range n.Children() {
		if match(c) {
			out = append(out, c)
		}
	}
	return out
}
