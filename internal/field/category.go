// ABOUTME: Field category detection from field names
// ABOUTME: Decides how a field is displayed: title, long text, date, link, image and so on

package field

import "strings"

// Category groups fields by how they should be presented.
type Category string

const (
	CategoryTitle       Category = "title"
	CategoryDescription Category = "description"
	CategoryDate        Category = "date"
	CategoryLink        Category = "link"
	CategoryImage       Category = "image"
	CategoryAuthor      Category = "author"
	CategoryCategory    Category = "category"
	CategoryDefault     Category = "default"
)

var categoryPatterns = []struct {
	category Category
	patterns []string
}{
	{CategoryTitle, []string{"title", "name"}},
	{CategoryDescription, []string{"description", "content", "summary"}},
	{CategoryDate, []string{"date", "time"}},
	{CategoryLink, []string{"link", "url", "guid"}},
	{CategoryImage, []string{"image", "img", "enclosure", "thumbnail", "media"}},
	{CategoryAuthor, []string{"author", "creator"}},
	{CategoryCategory, []string{"category", "tag"}},
}

// CategoryOf classifies a field by case-insensitive substring match on its
// name. The first matching category wins.
func CategoryOf(name string) Category {
	lower := strings.ToLower(name)
	for _, c := range categoryPatterns {
		for _, p := range c.patterns {
			if strings.Contains(lower, p) {
				return c.category
			}
		}
	}
	return CategoryDefault
}

// IsLongText reports whether the field holds prose such as a description.
func IsLongText(name string) bool {
	return CategoryOf(name) == CategoryDescription
}

// DisplayText returns what a table cell shows for a field. Link fields
// prefer their href attribute over the element text.
func DisplayText(name string, v Value) string {
	if strings.Contains(strings.ToLower(name), "link") {
		if href := strings.TrimSpace(v.Attr("href")); href != "" {
			return href
		}
	}
	return v.Text
}

// LinkURL extracts a URL from a field value, preferring href.
func LinkURL(v Value) string {
	if href := strings.TrimSpace(v.Attr("href")); href != "" {
		return href
	}
	return strings.TrimSpace(v.Text)
}
