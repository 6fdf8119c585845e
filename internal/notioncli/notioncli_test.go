package notioncli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"excelviewer/internal/notion"
)

func TestNewCommand_Tree(t *testing.T) {
	root := NewCommand()

	want := []string{"search", "databases", "preview", "inspect", "checklist", "status"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	if root.PersistentFlags().Lookup("json") == nil {
		t.Error("missing persistent --json flag")
	}
}

func TestStatusCommand_DryRun(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_test")
	t.Setenv("NOTION_ALLOW_WRITE", "")

	root := NewCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"status", "--page", "pg-1", "--value", "Done"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "Dry-run") {
		t.Errorf("output = %q, want dry-run notice", out.String())
	}
}

func TestStatusCommand_RequiresFlags(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_test")

	root := NewCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"status", "--page", "pg-1"})

	if err := root.Execute(); err == nil {
		t.Error("Execute() without --value should fail")
	}
}

func TestBuildChecklist(t *testing.T) {
	root := buildChecklist(templateSimple())

	if root.Type != "toggle" || root.PlainText() != checklistTitle {
		t.Fatalf("root = %s %q, want toggle %q", root.Type, root.PlainText(), checklistTitle)
	}

	groups := root.Toggle.Children
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	wantSections := []string{"Plan", "Do", "Review"}
	for i, g := range groups {
		if g.PlainText() != wantSections[i] {
			t.Errorf("section %d = %q, want %q", i, g.PlainText(), wantSections[i])
		}
		for _, todo := range g.Toggle.Children {
			if todo.Type != "to_do" || todo.ToDo.Checked {
				t.Errorf("item %+v, want unchecked to_do", todo)
			}
		}
	}
}

func TestTemplateOrderIsStable(t *testing.T) {
	a := buildChecklist(templateExcelMilestone())
	b := buildChecklist(templateExcelMilestone())

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if !bytes.Equal(ja, jb) {
		t.Error("checklist template must serialize identically between runs")
	}
}

func TestHasToggle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"object": "block", "id": "b-1", "type": "paragraph"},
				{
					"object": "block", "id": "b-2", "type": "toggle",
					"toggle": map[string]any{
						"rich_text": []map[string]any{{"plain_text": checklistTitle}},
					},
				},
			},
		})
	}))
	defer srv.Close()

	client, err := notion.NewClient("secret_test", notion.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	got, err := hasToggle(context.Background(), client, "pg-1", checklistTitle)
	if err != nil {
		t.Fatalf("hasToggle() error = %v", err)
	}
	if !got {
		t.Error("hasToggle() = false, want true")
	}

	got, err = hasToggle(context.Background(), client, "pg-1", "Some Other Toggle")
	if err != nil {
		t.Fatalf("hasToggle() error = %v", err)
	}
	if got {
		t.Error("hasToggle() = true for a title that is not present")
	}
}

func TestSchemaSummary(t *testing.T) {
	props := map[string]notion.Property{
		"Name":   {Type: "title"},
		"Status": {Type: "status"},
		"Due":    {Type: "date"},
	}

	got := schemaSummary(props, 6)
	if got != "Due:date, Name:title, Status:status" {
		t.Errorf("schemaSummary() = %q", got)
	}

	if got := schemaSummary(props, 2); got != "Due:date, Name:title" {
		t.Errorf("schemaSummary(max=2) = %q", got)
	}
}
