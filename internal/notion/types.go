package notion

import (
	"fmt"
	"strconv"
	"strings"
)

// RichText is one fragment of Notion rich text. Only the pieces the CLI
// reads and writes are modeled.
type RichText struct {
	Type      string `json:"type,omitempty"`
	PlainText string `json:"plain_text,omitempty"`
	Text      *Text  `json:"text,omitempty"`
}

// Text is the literal content of a rich-text fragment.
type Text struct {
	Content string `json:"content"`
}

// NewRichText builds a writable rich-text fragment.
func NewRichText(content string) RichText {
	return RichText{Type: "text", Text: &Text{Content: content}}
}

// PlainString joins the plain text of a rich-text array. Locally composed
// fragments carry only literal content, so fall back to it.
func PlainString(rts []RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}

// Result is a page or database as returned by search, retrieve, and query
// endpoints. Databases carry Title; pages carry a title inside Properties.
type Result struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	URL        string              `json:"url,omitempty"`
	PublicURL  string              `json:"public_url,omitempty"`
	Title      []RichText          `json:"title,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// DisplayTitle resolves a human-readable title for a page or database.
func (r Result) DisplayTitle() string {
	switch r.Object {
	case "database":
		if t := PlainString(r.Title); t != "" {
			return t
		}
		return "(untitled database)"
	case "page":
		for _, p := range r.Properties {
			if p.Type == "title" {
				if t := PlainString(p.Title); t != "" {
					return t
				}
				return "(untitled page)"
			}
		}
		return "(untitled page)"
	}
	return "(unknown)"
}

// Link returns the best available URL for the result.
func (r Result) Link() string {
	if r.URL != "" {
		return r.URL
	}
	return r.PublicURL
}

// Property is one page or schema property. The Type field names which of
// the value fields is populated.
type Property struct {
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Status      *SelectOption  `json:"status,omitempty"`
	People      []User         `json:"people,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	URL         string         `json:"url,omitempty"`
	Email       string         `json:"email,omitempty"`
	PhoneNumber string         `json:"phone_number,omitempty"`
}

// SelectOption is a select, multi-select, or status value.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue is a date or date-range value.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// User is a Notion user or bot.
type User struct {
	Object string `json:"object,omitempty"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Simplify flattens a property value to a one-line string for previews.
func (p Property) Simplify() string {
	switch p.Type {
	case "title":
		return PlainString(p.Title)
	case "rich_text":
		return PlainString(p.RichText)
	case "select":
		if p.Select != nil {
			return p.Select.Name
		}
		return ""
	case "multi_select":
		names := make([]string, len(p.MultiSelect))
		for i, o := range p.MultiSelect {
			names[i] = o.Name
		}
		return strings.Join(names, ", ")
	case "status":
		if p.Status != nil {
			return p.Status.Name
		}
		return ""
	case "people":
		names := make([]string, len(p.People))
		for i, u := range p.People {
			names[i] = u.Name
		}
		return strings.Join(names, ", ")
	case "checkbox":
		return fmt.Sprintf("%t", p.Checkbox != nil && *p.Checkbox)
	case "number":
		if p.Number == nil {
			return ""
		}
		return strconv.FormatFloat(*p.Number, 'f', -1, 64)
	case "date":
		if p.Date != nil {
			return p.Date.Start
		}
		return ""
	case "url":
		return p.URL
	case "email":
		return p.Email
	case "phone_number":
		return p.PhoneNumber
	case "":
		return "unknown"
	}
	return p.Type
}

// Block is a page content block. Exactly one content field matching Type is
// set; Children is only used when composing blocks to append.
type Block struct {
	Object      string `json:"object,omitempty"`
	ID          string `json:"id,omitempty"`
	Type        string `json:"type,omitempty"`
	HasChildren bool   `json:"has_children,omitempty"`

	Paragraph        *TextBlock  `json:"paragraph,omitempty"`
	Heading1         *TextBlock  `json:"heading_1,omitempty"`
	Heading2         *TextBlock  `json:"heading_2,omitempty"`
	Heading3         *TextBlock  `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock  `json:"bulleted_list_item,omitempty"`
	ToDo             *ToDoBlock  `json:"to_do,omitempty"`
	Toggle           *TextBlock  `json:"toggle,omitempty"`
	ChildPage        *TitleBlock `json:"child_page,omitempty"`
	ChildDatabase    *TitleBlock `json:"child_database,omitempty"`
}

// TextBlock is the shared shape of paragraph, heading, list item, and
// toggle content.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Children []Block    `json:"children,omitempty"`
}

// ToDoBlock is a checklist item.
type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Children []Block    `json:"children,omitempty"`
}

// TitleBlock is the content of child_page and child_database blocks.
type TitleBlock struct {
	Title string `json:"title"`
}

// PlainText returns the block's own text content, ignoring children.
func (b Block) PlainText() string {
	switch b.Type {
	case "paragraph":
		return blockText(b.Paragraph)
	case "heading_1":
		return blockText(b.Heading1)
	case "heading_2":
		return blockText(b.Heading2)
	case "heading_3":
		return blockText(b.Heading3)
	case "bulleted_list_item":
		return blockText(b.BulletedListItem)
	case "toggle":
		return blockText(b.Toggle)
	case "to_do":
		if b.ToDo == nil {
			return ""
		}
		return PlainString(b.ToDo.RichText)
	case "child_page":
		if b.ChildPage != nil {
			return b.ChildPage.Title
		}
	case "child_database":
		if b.ChildDatabase != nil {
			return b.ChildDatabase.Title
		}
	}
	return ""
}

func blockText(tb *TextBlock) string {
	if tb == nil {
		return ""
	}
	return PlainString(tb.RichText)
}

// NewParagraph builds a paragraph block from literal text.
func NewParagraph(content string) Block {
	return Block{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &TextBlock{RichText: []RichText{NewRichText(content)}},
	}
}

// NewToDo builds an unchecked to-do block.
func NewToDo(content string) Block {
	return Block{
		Object: "block",
		Type:   "to_do",
		ToDo:   &ToDoBlock{RichText: []RichText{NewRichText(content)}},
	}
}

// NewToggle builds a toggle block with nested children.
func NewToggle(title string, children []Block) Block {
	return Block{
		Object: "block",
		Type:   "toggle",
		Toggle: &TextBlock{RichText: []RichText{NewRichText(title)}, Children: children},
	}
}
