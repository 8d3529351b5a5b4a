// ABOUTME: OPML subscription lists: reads feed URLs for batch conversion and writes export manifests
// ABOUTME: Reading goes through the shared XML tree reader; writing uses etree

package opml

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/harper/rssedit/internal/field"
	"github.com/harper/rssedit/internal/xmltree"
)

// Document is a flattened OPML subscription list.
type Document struct {
	Title string
	Feeds []Feed
}

// Feed is one subscription with the folder it was listed under.
type Feed struct {
	URL     string
	HTMLURL string
	Title   string
	Folder  string
}

// NewDocument creates an empty document.
func NewDocument(title string) *Document {
	return &Document{Title: title, Feeds: []Feed{}}
}

// Parse reads OPML from r. Outlines without xmlUrl are folders; nested
// folders are reported under their outermost name.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OPML: %w", err)
	}
	tree, err := xmltree.Read(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode OPML: %w", err)
	}

	root := tree.Root()
	if root == nil || field.LocalName(root.Name()) != "opml" {
		return nil, fmt.Errorf("failed to decode OPML: missing <opml> root")
	}

	doc := NewDocument("")
	if head := child(root, "head"); head != nil {
		if title := child(head, "title"); title != nil {
			doc.Title = strings.TrimSpace(title.Text())
		}
	}
	if body := child(root, "body"); body != nil {
		for _, o := range outlines(body) {
			doc.collect(o, "")
		}
	}
	return doc, nil
}

// ParseFile reads OPML data from a file and returns a Document
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func (d *Document) collect(o xmltree.Node, folder string) {
	attrs := attrMap(o)
	if url := strings.TrimSpace(attrs["xmlUrl"]); url != "" {
		title := attrs["title"]
		if title == "" {
			title = attrs["text"]
		}
		d.Feeds = append(d.Feeds, Feed{URL: url, HTMLURL: attrs["htmlUrl"], Title: title, Folder: folder})
	}

	childFolder := folder
	if attrs["xmlUrl"] == "" && childFolder == "" {
		childFolder = attrs["text"]
	}
	for _, c := range outlines(o) {
		d.collect(c, childFolder)
	}
}

// Folders returns folder names in first-seen order.
func (d *Document) Folders() []string {
	seen := make(map[string]bool)
	var folders []string
	for _, f := range d.Feeds {
		if f.Folder != "" && !seen[f.Folder] {
			seen[f.Folder] = true
			folders = append(folders, f.Folder)
		}
	}
	return folders
}

// FeedsInFolder returns the feeds listed under folder; "" selects root feeds.
func (d *Document) FeedsInFolder(folder string) []Feed {
	var feeds []Feed
	for _, f := range d.Feeds {
		if f.Folder == folder {
			feeds = append(feeds, f)
		}
	}
	return feeds
}

// Add appends a feed, rejecting duplicate URLs.
func (d *Document) Add(f Feed) error {
	for _, existing := range d.Feeds {
		if existing.URL == f.URL {
			return fmt.Errorf("feed with URL %s already exists", f.URL)
		}
	}
	d.Feeds = append(d.Feeds, f)
	return nil
}

// Write writes the document as OPML 2.0, grouping feeds into folder outlines.
func (d *Document) Write(w io.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("opml")
	root.CreateAttr("version", "2.0")
	root.CreateElement("head").CreateElement("title").SetText(d.Title)
	body := root.CreateElement("body")

	folders := make(map[string]*etree.Element)
	for _, f := range d.Feeds {
		parent := body
		if f.Folder != "" {
			if folders[f.Folder] == nil {
				folders[f.Folder] = body.CreateElement("outline")
				folders[f.Folder].CreateAttr("text", f.Folder)
			}
			parent = folders[f.Folder]
		}
		o := parent.CreateElement("outline")
		o.CreateAttr("type", "rss")
		o.CreateAttr("text", f.Title)
		if f.Title != "" {
			o.CreateAttr("title", f.Title)
		}
		o.CreateAttr("xmlUrl", f.URL)
		if f.HTMLURL != "" {
			o.CreateAttr("htmlUrl", f.HTMLURL)
		}
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode OPML: %w", err)
	}
	return nil
}

// WriteFile writes the OPML document to a file
func (d *Document) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return d.Write(file)
}

func child(n xmltree.Node, name string) xmltree.Node {
	for _, c := range n.Children() {
		if field.LocalName(c.Name()) == name {
			return c
		}
	}
	return nil
}

func outlines(n xmltree.Node) []xmltree.Node {
	return xmltree.ChildrenWhere(n, func(c xmltree.Node) bool {
		return field.LocalName(c.Name()) == "outline"
	})
}

func attrMap(n xmltree.Node) map[string]string {
	m := make(map[string]string)
	for _, a := range n.Attrs() {
		m[a.Name] = a.Value
	}
	return m
}
