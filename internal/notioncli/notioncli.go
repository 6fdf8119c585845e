// Package notioncli provides the CLI commands for the project-management
// side of the toolchain: inspecting and updating the Notion workspace that
// tracks spreadsheet-viewer work.
package notioncli

import (
	"encoding/json"
	"fmt"
	"io"

	"excelviewer/internal/notion"

	"github.com/spf13/cobra"
)

var jsonOutput bool

// NewCommand returns the notionctl root command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notionctl",
		Short: "Inspect and update the project's Notion workspace",
		Long: `Read and maintain project-management content in Notion.

Requires NOTION_TOKEN in the environment (or .env). Write commands are
dry-run by default: pass --apply and set NOTION_ALLOW_WRITE=true to make
changes.

Output:
  default  Human-friendly summaries
  --json   Raw JSON responses for automation`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output raw JSON instead of human-formatted summaries")

	cmd.AddCommand(newSearchCommand())
	cmd.AddCommand(newDatabasesCommand())
	cmd.AddCommand(newPreviewCommand())
	cmd.AddCommand(newInspectCommand())
	cmd.AddCommand(newChecklistCommand())
	cmd.AddCommand(newStatusCommand())

	return cmd
}

// newClient builds an API client from the environment.
func newClient() (*notion.Client, error) {
	c, err := notion.NewClientFromEnv()
	if err != nil {
		return nil, fmt.Errorf("missing NOTION_TOKEN env var, set it in .env")
	}
	return c, nil
}

// printJSON writes v as indented JSON for the --json mode.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
