package notioncli

import (
	"context"
	"fmt"
	"strings"

	"excelviewer/internal/notion"

	"github.com/spf13/cobra"
)

// checklistTitle marks the generated checklist so reruns can detect it.
const checklistTitle = "Detailed Checklist (auto)"

// checklistSection is one toggle of to-do items. Ordered, since the map
// form would shuffle sections between runs.
type checklistSection struct {
	Name  string
	Items []string
}

func templateExcelMilestone() []checklistSection {
	return []checklistSection{
		{"Discovery", []string{
			"Confirm scope and success criteria",
			"Collect sample Excel/CSV files",
			"Identify required columns and formats",
		}},
		{"Preparation", []string{
			"Clean sample data (types, headers)",
			"Define sheet and file naming conventions",
			"Decide export sheet names",
		}},
		{"Implementation", []string{
			"Upload and select sheets",
			"Adjust data inline (edits)",
			"Save/export test .xlsx",
		}},
		{"Review", []string{
			"Stakeholder review of sample export",
			"Fix data mismatches",
			"Freeze the mapping and rules",
		}},
		{"QA", []string{
			"Retest with new sample files",
			"Verify i18n labels",
			"Confirm large-file limits",
		}},
		{"Release", []string{
			"Export final .xlsx",
			"Share and gather feedback",
			"Document steps in Notion",
		}},
	}
}

func templateSimple() []checklistSection {
	return []checklistSection{
		{"Plan", []string{"Define goal", "List tasks", "Set owners"}},
		{"Do", []string{"Execute tasks", "Track progress"}},
		{"Review", []string{"Validate outcome", "Retrospective"}},
	}
}

func newChecklistCommand() *cobra.Command {
	var (
		pageID   string
		template string
		apply    bool
	)

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Append a structured checklist toggle to a page",
		Long: `Append a "Detailed Checklist (auto)" toggle with nested sections of
to-do items to a page. Idempotent: if a toggle with the same title already
exists at the top level, nothing is created.

Dry-run by default. Pass --apply (and NOTION_ALLOW_WRITE=true) to write.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			var sections []checklistSection
			switch template {
			case "excel_milestone":
				sections = templateExcelMilestone()
			case "simple":
				sections = templateSimple()
			default:
				return fmt.Errorf("unknown template %q (excel_milestone or simple)", template)
			}

			exists, err := hasToggle(cmd.Context(), client, pageID, checklistTitle)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintln(out, "Checklist already exists; skipping creation")
				return nil
			}

			root := buildChecklist(sections)
			fmt.Fprintf(out, "Appending checklist to page %s using template %s\n", pageID, template)
			if !apply {
				fmt.Fprintln(out, "Dry-run; pass --apply to write")
				return nil
			}

			if err := client.AppendBlockChildren(cmd.Context(), pageID, []notion.Block{root}); err != nil {
				return err
			}
			fmt.Fprintln(out, "Done")
			return nil
		},
	}

	cmd.Flags().StringVar(&pageID, "page", "", "Page id (required)")
	cmd.Flags().StringVar(&template, "template", "excel_milestone", "Checklist template: excel_milestone or simple")
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply changes instead of dry-run")
	cmd.MarkFlagRequired("page")
	return cmd
}

// hasToggle reports whether the page already has a top-level toggle with
// the given title.
func hasToggle(ctx context.Context, client *notion.Client, pageID, title string) (bool, error) {
	blocks, err := client.ListBlockChildren(ctx, pageID)
	if err != nil {
		return false, err
	}
	for _, b := range blocks {
		if b.Type == "toggle" && strings.TrimSpace(b.PlainText()) == title {
			return true, nil
		}
	}
	return false, nil
}

// buildChecklist nests the section toggles under one root toggle.
func buildChecklist(sections []checklistSection) notion.Block {
	groups := make([]notion.Block, 0, len(sections))
	for _, s := range sections {
		todos := make([]notion.Block, 0, len(s.Items))
		for _, item := range s.Items {
			todos = append(todos, notion.NewToDo(item))
		}
		groups = append(groups, notion.NewToggle(s.Name, todos))
	}
	return notion.NewToggle(checklistTitle, groups)
}
