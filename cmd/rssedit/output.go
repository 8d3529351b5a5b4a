// ABOUTME: Terminal output helpers shared by the feed commands
// ABOUTME: Prints item lists, typed feed errors and JSON with fatih/color

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harper/rssedit/internal/content"
	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/field"
	"github.com/harper/rssedit/internal/models"
)

// maxListFields caps how many non-title fields are shown per item.
const maxListFields = 4

// printFeed prints the channel title followed by one block per item.
func printFeed(w io.Writer, feed *models.Feed) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	title := feed.Title()
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(w, "%s %s\n", bold(title), faint(fmt.Sprintf("(%s, %d items)", feed.FeedType, len(feed.Items))))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for i, item := range feed.Items {
		fmt.Fprintf(w, "%s %s\n", faint(fmt.Sprintf("%3d", i)), itemTitle(item))

		shown := 0
		item.Each(func(key string, v field.Value) bool {
			if field.CategoryOf(key) == field.CategoryTitle || v.IsEmpty() {
				return true
			}
			fmt.Fprintf(w, "    %s %s\n", cyan(key+":"), content.Preview(content.Cell(key, v), 80))
			shown++
			return shown < maxListFields
		})
	}
}

func itemTitle(item *field.Record) string {
	for _, key := range []string{"title", "name"} {
		if t := strings.TrimSpace(item.Text(key)); t != "" {
			return t
		}
	}
	return "Untitled"
}

// printError writes a feed error as "TYPE message" in red. Other errors are
// written as-is.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed).SprintFunc()
	if ferr, ok := feederr.As(err); ok {
		fmt.Fprintf(w, "%s %s\n", red(string(ferr.Kind)), ferr.Message)
		return
	}
	fmt.Fprintf(w, "%s %v\n", red("error"), err)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
