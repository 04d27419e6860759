package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/likhit-sai/CogniFlow/internal/entity"
)

const (
	SpreadsheetRows    = 20
	SpreadsheetColumns = 10
)

// NewItemID returns a fresh identifier prefixed with the kind, e.g. "page-3f0c...".
func NewItemID(kind entity.ItemKind) string {
	return fmt.Sprintf("%s-%s", kind, uuid.NewString())
}

// EmptyGrid renders a rows x cols spreadsheet of empty cells as a JSON 2D array.
func EmptyGrid(rows, cols int) string {
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
	}
	b, _ := json.Marshal(grid)
	return string(b)
}

func MeetingTemplate(name string) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(name)
	sb.WriteString("\n\n### Agenda\n\n- \n\n### Notes\n\n- ")
	return sb.String()
}

// applyKindDefaults fills the kind specific payload of a freshly created item.
func applyKindDefaults(it *entity.Item, opts CreateOptions, newId func(entity.ItemKind) string) {
	switch it.Kind {
	case entity.ItemKindDatabase:
		it.Icon = entity.StringPtr("📦")
		it.Schema = []entity.PropertySchema{{Id: "prop-1", Name: "Name", Type: entity.PropertyTypeText}}
		it.Views = []entity.View{
			{Id: "view-1", Type: entity.ViewTypeTable, Name: "Table"},
			{Id: "view-2", Type: entity.ViewTypeGallery, Name: "Gallery"},
		}
		it.ActiveViewId = entity.StringPtr("view-1")
	case entity.ItemKindSpreadsheet:
		it.Icon = entity.StringPtr("📊")
		it.Content = entity.StringPtr(EmptyGrid(SpreadsheetRows, SpreadsheetColumns))
	case entity.ItemKindPresentation:
		theme := entity.ThemeDefaultDark
		it.Icon = entity.StringPtr("📽️")
		it.Slides = []entity.Slide{{
			Id:      newId("slide"),
			Title:   "Title Slide",
			Content: "## Add your content here",
		}}
		it.Theme = &theme
	case entity.ItemKindMeeting:
		it.Icon = entity.StringPtr("🎙️")
		it.Content = entity.StringPtr(MeetingTemplate(it.Name))
	case entity.ItemKindSketch:
		paper := entity.PaperStylePlain
		it.Icon = entity.StringPtr("🎨")
		it.Content = entity.StringPtr("")
		it.PaperStyle = &paper
	case entity.ItemKindPage:
		it.Icon = entity.StringPtr("📄")
		if opts.Content != nil && *opts.Content != "" {
			it.Content = entity.StringPtr(*opts.Content)
		} else {
			it.Content = entity.StringPtr(fmt.Sprintf("# %s\n\n", it.Name))
		}
		it.Properties = opts.Properties
	case entity.ItemKindFolder:
		if opts.Content != nil && *opts.Content != "" {
			it.Content = entity.StringPtr(*opts.Content)
		}
		it.Properties = opts.Properties
	}
}
