package notioncli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	var (
		pageID string
		prop   string
		value  string
		apply  bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Set a status property on a page",
		Long: `Update one status property of a database page, e.g. moving a task to
"In progress". Dry-run by default; pass --apply (and NOTION_ALLOW_WRITE=true)
to write.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Setting %q to %q on page %s\n", prop, value, pageID)
			if !apply {
				fmt.Fprintln(out, "Dry-run; pass --apply to write")
				return nil
			}

			props := map[string]any{
				prop: map[string]any{
					"status": map[string]any{"name": value},
				},
			}
			if err := client.UpdatePage(cmd.Context(), pageID, props); err != nil {
				return err
			}
			fmt.Fprintln(out, "Done")
			return nil
		},
	}

	cmd.Flags().StringVar(&pageID, "page", "", "Page id (required)")
	cmd.Flags().StringVar(&prop, "prop", "Status", "Status property name")
	cmd.Flags().StringVar(&value, "value", "", "Status value to set (required)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply changes instead of dry-run")
	cmd.MarkFlagRequired("page")
	cmd.MarkFlagRequired("value")
	return cmd
}
