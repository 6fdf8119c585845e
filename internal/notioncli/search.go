package notioncli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search pages and databases in the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			results, err := client.Search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), results)
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No results for: %s\n", query)
				return nil
			}

			fmt.Fprintf(out, "Found %d result(s) for: %s\n\n", len(results), query)
			for i, r := range results {
				fmt.Fprintf(out, "%d. [%s] %s\n", i+1, r.Object, r.DisplayTitle())
				fmt.Fprintf(out, "   id: %s\n", r.ID)
				if url := r.Link(); url != "" {
					fmt.Fprintf(out, "   url: %s\n", url)
				}
				if r.Object == "database" && len(r.Properties) > 0 {
					fmt.Fprintf(out, "   properties: %s\n", schemaSummary(r.Properties, 6))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results")
	return cmd
}
