// ABOUTME: Show command for viewing every field of one item
// ABOUTME: Long HTML fields are converted to Markdown and rendered with glamour

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/rssedit/internal/content"
	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/field"
	"github.com/harper/rssedit/internal/logging"
)

var showCmd = &cobra.Command{
	Use:   "show <source> <index>",
	Short: "Show all fields of an item",
	Long:  "Display every field of one item (0-based index) from a feed URL, file, or stdin.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}

		feed, _, err := loadSource(cmd.Context(), args[0], cmd.InOrStdin())
		if err != nil {
			printError(cmd.ErrOrStderr(), err)
			return fmt.Errorf("failed to load %s", args[0])
		}
		if index < 0 || index >= len(feed.Items) {
			return feederr.Newf(feederr.KindValidation, "item index %d out of range (feed has %d items)", index, len(feed.Items))
		}
		item := feed.Items[index]

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		w := cmd.OutOrStdout()

		fmt.Fprintln(w, strings.Repeat("─", 60))
		fmt.Fprintf(w, "%s\n", bold(itemTitle(item)))
		fmt.Fprintf(w, "%s %s\n\n", faint("Feed:"), feed.Title())

		var blocks []string
		item.Each(func(key string, v field.Value) bool {
			text := field.DisplayText(key, v)
			if field.IsLongText(key) && (content.IsHTML(text) || content.IsExpandable(text)) {
				blocks = append(blocks, key)
				return true
			}
			fmt.Fprintf(w, "%s %s\n", cyan(key+":"), text)
			for _, name := range sortedAttrs(v) {
				fmt.Fprintf(w, "  %s %s\n", faint("@"+name+":"), v.Attributes[name])
			}
			return true
		})

		for _, key := range blocks {
			v, _ := item.Get(key)
			fmt.Fprintf(w, "\n%s\n", cyan(key+":"))
			rendered, err := content.Render(content.ToMarkdown(content.Sanitize(v.Text)), cfg.RenderStyle)
			if err != nil {
				logging.WithFields(logging.Fields{"field": key}).Debugf("markdown render failed: %v", err)
			}
			fmt.Fprint(w, rendered)
		}

		fmt.Fprintln(w, strings.Repeat("─", 60))
		return nil
	},
}

func sortedAttrs(v field.Value) []string {
	names := make([]string, 0, len(v.Attributes))
	for name := range v.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	rootCmd.AddCommand(showCmd)
}
