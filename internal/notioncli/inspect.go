package notioncli

import (
	"fmt"

	"excelviewer/internal/notion"

	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	var pageID string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Dump the blocks of a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			blocks, err := client.ListBlockChildren(cmd.Context(), pageID)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), blocks)
			}

			out := cmd.OutOrStdout()
			if len(blocks) == 0 {
				fmt.Fprintln(out, "No blocks on page.")
				return nil
			}

			fmt.Fprintf(out, "Found %d block(s) on page %s\n\n", len(blocks), pageID)
			for i, b := range blocks {
				fmt.Fprintf(out, "%d. [%s] id=%s\n", i+1, b.Type, b.ID)
				printBlockDetail(cmd, b)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pageID, "page", "", "Page id (required)")
	cmd.MarkFlagRequired("page")
	return cmd
}

func printBlockDetail(cmd *cobra.Command, b notion.Block) {
	out := cmd.OutOrStdout()
	switch b.Type {
	case "to_do":
		mark := " "
		if b.ToDo != nil && b.ToDo.Checked {
			mark = "x"
		}
		fmt.Fprintf(out, "    - [%s] %s\n", mark, b.PlainText())
	case "bulleted_list_item":
		fmt.Fprintf(out, "    - %s\n", b.PlainText())
	case "child_database":
		fmt.Fprintf(out, "   database title: %s\n", b.PlainText())
	case "child_page":
		fmt.Fprintf(out, "   child page: %s\n", b.PlainText())
	default:
		if text := b.PlainText(); text != "" {
			fmt.Fprintf(out, "   %s\n", text)
		}
	}
}
