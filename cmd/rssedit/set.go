// ABOUTME: Set command for editing one field of one item
// ABOUTME: Applies the edit and writes the regenerated XML to the output directory

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <source>",
	Short: "Edit an item field and write the feed",
	Long: `Set (or delete) one field of one item and write the regenerated XML.

Setting a value keeps any attributes the field already has. Use --attr to
set a single attribute (for example an Atom link's href) instead of the text.

Examples:
  rssedit set feed.xml --item 0 --field title --value "Better title"
  rssedit set https://example.com/atom --item 2 --field link --attr href --value https://example.com/post
  rssedit set feed.xml --item 1 --field category --delete`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("item")
		key, _ := cmd.Flags().GetString("field")
		value, _ := cmd.Flags().GetString("value")
		attr, _ := cmd.Flags().GetString("attr")
		del, _ := cmd.Flags().GetBool("delete")
		outDir, _ := cmd.Flags().GetString("out")

		feed, _, err := loadSource(cmd.Context(), args[0], cmd.InOrStdin())
		if err != nil {
			printError(cmd.ErrOrStderr(), err)
			return fmt.Errorf("failed to load %s", args[0])
		}

		switch {
		case del:
			err = feed.DeleteItemField(index, key)
		case attr != "":
			err = feed.SetItemAttribute(index, key, attr, value)
		default:
			err = feed.SetItemField(index, key, value)
		}
		if err != nil {
			return err
		}

		if outDir == "" {
			outDir = cfg.GetOutputDir()
		}
		return writeFeed(cmd.OutOrStdout(), outDir, feed)
	},
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().IntP("item", "i", 0, "0-based item index")
	setCmd.Flags().StringP("field", "f", "", "field name")
	setCmd.Flags().StringP("value", "v", "", "new text, or attribute value with --attr")
	setCmd.Flags().String("attr", "", "attribute name to set instead of the text")
	setCmd.Flags().Bool("delete", false, "remove the field from the item")
	setCmd.Flags().StringP("out", "o", "", "output directory (default: output_dir from config)")

	_ = setCmd.MarkFlagRequired("field")
	setCmd.MarkFlagsMutuallyExclusive("delete", "value")
	setCmd.MarkFlagsMutuallyExclusive("delete", "attr")
}
