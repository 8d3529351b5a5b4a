// ABOUTME: Discover command for finding the feed behind a web page
// ABOUTME: Checks the URL itself, HTML alternate links, then common feed paths

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/rssedit/internal/discover"
	"github.com/harper/rssedit/internal/fetch"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <url>",
	Short: "Find the RSS/Atom feed for a web page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		found, err := discover.Discover(cmd.Context(), fetch.New(cfg.FetchOptions()), args[0])
		if err != nil {
			printError(cmd.ErrOrStderr(), err)
			return fmt.Errorf("discovery failed for %s", args[0])
		}

		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, found)
		}

		green := color.New(color.FgGreen).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		fmt.Fprintf(w, "%s %s\n", green("v"), found.URL)
		if found.Title != "" {
			fmt.Fprintf(w, "  %s %s\n", faint("Title:"), found.Title)
		}
		fmt.Fprintf(w, "  %s %s (%s)\n", faint("Type: "), found.FeedType, found.Via)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().Bool("json", false, "print the result as JSON")
}
