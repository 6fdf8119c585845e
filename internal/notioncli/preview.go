package notioncli

import (
	"fmt"
	"strings"

	"excelviewer/internal/notion"

	"github.com/spf13/cobra"
)

func newPreviewCommand() *cobra.Command {
	var (
		databaseID string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show a database's schema and its first rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			meta, err := client.RetrieveDatabase(cmd.Context(), databaseID)
			if err != nil {
				return err
			}
			rows, err := client.QueryDatabase(cmd.Context(), databaseID, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"database": meta,
					"rows":     rows,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s (%s)\n", notion.PlainString(meta.Title), databaseID)

			names := propertyNames(meta.Properties)
			fmt.Fprintf(out, "Properties: %s\n", schemaSummary(meta.Properties, len(names)))

			fmt.Fprintf(out, "\n%d row(s) preview:\n\n", len(rows))
			for i, page := range rows {
				fmt.Fprintf(out, "%d. %s\n", i+1, page.ID)

				pairs := make([]string, 0, len(names))
				for _, name := range names {
					pairs = append(pairs, name+"="+page.Properties[name].Simplify())
				}
				fmt.Fprintf(out, "   %s\n", strings.Join(pairs, "; "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseID, "db", "", "Database id (required)")
	cmd.Flags().IntVar(&limit, "limit", 5, "Number of rows to preview")
	cmd.MarkFlagRequired("db")
	return cmd
}
