// ABOUTME: Turns feed field values into terminal-friendly text
// ABOUTME: Converts HTML descriptions to Markdown, truncates table previews and renders with glamour

package content

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"

	"github.com/harper/rssedit/internal/field"
)

const (
	// PreviewLength is the rune limit for long-text cells in item tables.
	PreviewLength = 200
	// ExpandableThreshold is the length above which `show` renders a field
	// as its own Markdown block instead of inline.
	ExpandableThreshold = 500
)

// htmlTagPattern matches common HTML tags
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote)[^>]*>`)

var whitespace = regexp.MustCompile(`\s+`)

var (
	ugcPolicy   = bluemonday.UGCPolicy()
	stripPolicy = bluemonday.StripTagsPolicy()
)

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	if strings.Contains(content, "<!DOCTYPE") || strings.Contains(content, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(content)
}

// ToMarkdown converts HTML content to Markdown
// If the content doesn't appear to be HTML, returns it unchanged
func ToMarkdown(content string) string {
	if content == "" || !IsHTML(content) {
		return content
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(markdown)
}

// Sanitize removes scripts, styles and unsafe attributes from feed HTML,
// keeping ordinary formatting markup.
func Sanitize(content string) string {
	return ugcPolicy.Sanitize(content)
}

// StripHTML returns the text of an HTML fragment with all tags removed and
// entities decoded.
func StripHTML(content string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(content)))
}

// Preview collapses whitespace and cuts s to at most max runes, marking a
// cut with an ellipsis.
func Preview(s string, max int) string {
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// Cell returns the single-line text shown for a field in an item table.
// Long-text fields are converted from HTML and truncated.
func Cell(name string, v field.Value) string {
	text := field.DisplayText(name, v)
	if field.IsLongText(name) {
		return Preview(ToMarkdown(text), PreviewLength)
	}
	return Preview(text, 0)
}

// IsExpandable reports whether text is long enough to be shown as a block.
func IsExpandable(text string) bool {
	return utf8.RuneCountInString(text) > ExpandableThreshold
}

// Render renders Markdown for the terminal using the named glamour style.
// On failure the Markdown is returned unchanged with the error.
func Render(markdown, style string) (string, error) {
	if style == "" {
		style = "dark"
	}
	rendered, err := glamour.Render(markdown, style)
	if err != nil {
		return markdown, err
	}
	return rendered, nil
}
