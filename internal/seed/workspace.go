// Package seed holds the starter workspace written to an empty store.
package seed

import (
	"encoding/json"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
)

const gettingStarted = `# Welcome to your new Productivity Hub!

This is a page. Write notes, document ideas or plan your work here using Markdown.

## Rich Content Embeds

Embed content from other platforms directly into your notes.

### YouTube

Use the format: ` + "`@[youtube](YOUTUBE_URL)`" + `

@[youtube](https://www.youtube.com/watch?v=dQw4w9WgXcQ)

### Spotify

Use the format: ` + "`@[spotify](SPOTIFY_URL)`" + `

@[spotify](https://open.spotify.com/track/4cOdK2wGLETOMs3k9yP1Qf)
`

const standupNotes = `### Agenda
- Review previous action items
- Discuss current sprint progress
- Blockers and challenges

### Notes
- Awaiting feedback from the design team on the new mockups.
`

// Workspace returns the starter collection. Dates in database rows are relative to now.
func Workspace(now time.Time) []*entity.Item {
	now = now.UTC().Truncate(time.Millisecond)
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}
	str := entity.StringPtr
	root := str("folder-1")
	roadmap := str("db-1")
	paper := entity.PaperStylePlain
	theme := entity.ThemeDefaultDark

	budget, _ := json.Marshal([][]string{
		{"Item", "Category", "Budget", "Actual", "Variance"},
		{"Office Supplies", "Operations", "1000", "850", "150"},
		{"Software Licenses", "Tech", "2500", "2500", "0"},
		{"Marketing Campaign", "Marketing", "5000", "6200", "-1200"},
	})

	items := []*entity.Item{
		{Id: "folder-1", Name: "Productivity Hub", Kind: entity.ItemKindFolder},
		{Id: "page-1", Name: "Getting Started", Kind: entity.ItemKindPage, ParentId: root, Icon: str("🚀"), Content: str(gettingStarted)},
		{Id: "meeting-1", Name: "Team Sync - Standup", Kind: entity.ItemKindMeeting, ParentId: root, Icon: str("🎙️"), Content: str(standupNotes)},
		{Id: "sketch-1", Name: "Brainstorming Sketch", Kind: entity.ItemKindSketch, ParentId: root, Icon: str("🎨"), Content: str(""), PaperStyle: &paper},
		{
			Id: "db-1", Name: "Project Roadmap", Kind: entity.ItemKindDatabase, ParentId: root, Icon: str("🗺️"),
			Schema: []entity.PropertySchema{
				{Id: "prop-1", Name: "Task", Type: entity.PropertyTypeText},
				{Id: "prop-2", Name: "Status", Type: entity.PropertyTypeStatus, Options: []entity.PropertyOption{
					{Id: "opt-1", Name: "To Do", Color: "bg-neutral-800"},
					{Id: "opt-2", Name: "In Progress", Color: "bg-neutral-700"},
					{Id: "opt-3", Name: "Done", Color: "bg-neutral-600"},
				}},
				{Id: "prop-3", Name: "Priority", Type: entity.PropertyTypeStatus, Options: []entity.PropertyOption{
					{Id: "prio-1", Name: "Low", Color: "bg-sky-700"},
					{Id: "prio-2", Name: "Medium", Color: "bg-yellow-700"},
					{Id: "prio-3", Name: "High", Color: "bg-red-700"},
				}},
				{Id: "prop-4", Name: "Tags", Type: entity.PropertyTypeTag, Options: []entity.PropertyOption{
					{Id: "opt-4", Name: "Urgent", Color: "bg-red-700"},
					{Id: "opt-5", Name: "Feature", Color: "bg-neutral-700"},
					{Id: "opt-6", Name: "Bug", Color: "bg-rose-700"},
				}},
				{Id: "prop-5", Name: "Due Date", Type: entity.PropertyTypeDate},
			},
			Views: []entity.View{
				{Id: "view-1", Type: entity.ViewTypeTable, Name: "Table View"},
				{Id: "view-2", Type: entity.ViewTypeGallery, Name: "Gallery View"},
				{Id: "view-3", Type: entity.ViewTypeCalendar, Name: "Calendar"},
			},
			ActiveViewId: str("view-3"),
		},
		{
			Id: "db-page-1", Name: "Design the new dashboard", Kind: entity.ItemKindPage, ParentId: roadmap, Icon: str("🎨"),
			CoverImage: str("https://images.unsplash.com/photo-1551288049-bebda4e38f71?q=80&w=1470&auto=format&fit=crop"),
			Content:    str("Flesh out the designs in Figma."),
			Properties: map[string]any{
				"prop-1": "Design the new dashboard",
				"prop-2": "opt-2",
				"prop-3": "prio-3",
				"prop-4": []any{"opt-5"},
				"prop-5": day(1),
			},
		},
		{
			Id: "db-page-2", Name: "Fix login button bug", Kind: entity.ItemKindPage, ParentId: roadmap, Icon: str("🐞"),
			CoverImage: str("https://images.unsplash.com/photo-1579468118864-1b9ea3c0db4a?q=80&w=1470&auto=format&fit=crop"),
			Content:    str("The login button is not working on Safari."),
			Properties: map[string]any{
				"prop-1": "Fix login button bug",
				"prop-2": "opt-1",
				"prop-3": "prio-3",
				"prop-4": []any{"opt-4", "opt-6"},
				"prop-5": day(0),
			},
		},
		{
			Id: "db-page-3", Name: "Release version 2.0", Kind: entity.ItemKindPage, ParentId: roadmap, Icon: str("🎉"),
			CoverImage: str("https://images.unsplash.com/photo-1522071820081-009f0129c71c?q=80&w=1470&auto=format&fit=crop"),
			Content:    str("Deploy the new version to production."),
			Properties: map[string]any{
				"prop-1": "Release version 2.0",
				"prop-2": "opt-3",
				"prop-3": "prio-2",
				"prop-4": []any{"opt-5"},
				"prop-5": day(7),
			},
		},
		{Id: "spreadsheet-1", Name: "Q3 Budget", Kind: entity.ItemKindSpreadsheet, ParentId: root, Icon: str("📊"), Content: str(string(budget))},
		{
			Id: "presentation-1", Name: "Quarterly Review", Kind: entity.ItemKindPresentation, ParentId: root, Icon: str("📽️"),
			Slides: []entity.Slide{
				{Id: "s1", Title: "Q3 Quarterly Review", Content: "### A look back at our performance"},
				{Id: "s2", Title: "Key Wins", Content: "- Launched new dashboard\n- Increased user engagement by 20%\n- Hired 3 new engineers"},
				{Id: "s3", Title: "Challenges", Content: "- Unexpected server costs\n- Login bug on Safari (fixed)\n- Competitor X launched new feature"},
				{Id: "s4", Title: "Next Steps for Q4", Content: "- Finalize version 2.0 release\n- Begin work on mobile app\n- Explore new marketing channels"},
			},
			Theme: &theme,
		},
	}

	for _, it := range items {
		it.CreatedAt = now
		it.UpdatedAt = now
	}
	return items
}
