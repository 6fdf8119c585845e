package notioncli

import (
	"fmt"
	"sort"
	"strings"

	"excelviewer/internal/notion"

	"github.com/spf13/cobra"
)

func newDatabasesCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "databases",
		Short: "List databases visible to the integration",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			dbs, err := client.SearchDatabases(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), dbs)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d database(s)\n", len(dbs))
			for i, db := range dbs {
				fmt.Fprintf(out, "%d. %s | id=%s | props=[%s]\n",
					i+1, db.DisplayTitle(), db.ID, strings.Join(propertyNames(db.Properties), " "))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of search results to scan")
	return cmd
}

// propertyNames returns the schema's property names in stable order.
func propertyNames(props map[string]notion.Property) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// schemaSummary renders up to max "name:type" pairs of a database schema.
func schemaSummary(props map[string]notion.Property, max int) string {
	names := propertyNames(props)
	if len(names) > max {
		names = names[:max]
	}
	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = name + ":" + props[name].Type
	}
	return strings.Join(pairs, ", ")
}
