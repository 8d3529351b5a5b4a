// ABOUTME: Info command for summarising a feed
// ABOUTME: Shows feed type, version, item and field counts, channel metadata and date range

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/rssedit/internal/summary"
)

var infoCmd = &cobra.Command{
	Use:   "info <source>",
	Short: "Summarise a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		feed, raw, err := loadSource(cmd.Context(), args[0], cmd.InOrStdin())
		if err != nil {
			printError(cmd.ErrOrStderr(), err)
			return fmt.Errorf("failed to load %s", args[0])
		}

		s := summary.Build(feed, raw)
		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, s)
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(w, "%s\n", bold(title))
		if s.Description != "" {
			fmt.Fprintf(w, "%s\n", s.Description)
		}
		fmt.Fprintln(w)

		typ := string(s.FeedType)
		if s.Version != "" {
			typ += " " + s.Version
		}
		fmt.Fprintf(w, "%s %s\n", faint("Type:    "), typ)
		if s.Link != "" {
			fmt.Fprintf(w, "%s %s\n", faint("Link:    "), s.Link)
		}
		if s.Language != "" {
			fmt.Fprintf(w, "%s %s\n", faint("Language:"), s.Language)
		}
		fmt.Fprintf(w, "%s %d\n", faint("Items:   "), s.ItemCount)
		fmt.Fprintf(w, "%s %d (%s)\n", faint("Fields:  "), s.FieldCount, strings.Join(s.Fields, ", "))
		if s.Newest != nil {
			fmt.Fprintf(w, "%s %s\n", faint("Newest:  "), s.Newest.Format("02 Jan 06 15:04 MST"))
		}
		if s.Oldest != nil {
			fmt.Fprintf(w, "%s %s\n", faint("Oldest:  "), s.Oldest.Format("02 Jan 06 15:04 MST"))
		}
		if len(s.Recent) > 0 {
			fmt.Fprintf(w, "%s today %d, this week %d, this month %d\n",
				faint("Recent:  "), s.Recent["today"], s.Recent["week"], s.Recent["month"])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("json", false, "print the summary as JSON")
}
