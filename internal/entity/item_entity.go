package entity

import (
	"time"
)

type ItemKind string

const (
	ItemKindFolder       ItemKind = "folder"
	ItemKindPage         ItemKind = "page"
	ItemKindDatabase     ItemKind = "database"
	ItemKindSpreadsheet  ItemKind = "spreadsheet"
	ItemKindPresentation ItemKind = "presentation"
	ItemKindMeeting      ItemKind = "meeting"
	ItemKindSketch       ItemKind = "sketch"
)

var ItemKinds = []ItemKind{
	ItemKindFolder,
	ItemKindPage,
	ItemKindDatabase,
	ItemKindSpreadsheet,
	ItemKindPresentation,
	ItemKindMeeting,
	ItemKindSketch,
}

func (k ItemKind) Valid() bool {
	for _, known := range ItemKinds {
		if k == known {
			return true
		}
	}
	return false
}

type PropertyType string

const (
	PropertyTypeText   PropertyType = "text"
	PropertyTypeTag    PropertyType = "tag"
	PropertyTypeDate   PropertyType = "date"
	PropertyTypeStatus PropertyType = "status"
)

type ViewType string

const (
	ViewTypeTable    ViewType = "table"
	ViewTypeGallery  ViewType = "gallery"
	ViewTypeCalendar ViewType = "calendar"
)

type PaperStyle string

const (
	PaperStylePlain    PaperStyle = "plain"
	PaperStyleLined    PaperStyle = "lined"
	PaperStyleGrid     PaperStyle = "grid"
	PaperStyleDotted   PaperStyle = "dotted"
	PaperStyleFourLine PaperStyle = "four-line"
)

type PresentationTheme string

const (
	ThemeDefaultDark  PresentationTheme = "default-dark"
	ThemeProfessional PresentationTheme = "professional"
	ThemeGalaxy       PresentationTheme = "galaxy"
	ThemePlayful      PresentationTheme = "playful"
)

type PropertyOption struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PropertySchema is one column of a database. Options are only meaningful for tag and status.
type PropertySchema struct {
	Id      string           `json:"id"`
	Name    string           `json:"name"`
	Type    PropertyType     `json:"type"`
	Options []PropertyOption `json:"options"`
}

type View struct {
	Id   string   `json:"id"`
	Type ViewType `json:"type"`
	Name string   `json:"name"`
}

type Slide struct {
	Id      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Item is a single record of the workspace tree. Records are flat: children point
// at their parent through ParentId and are never embedded.
type Item struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      ItemKind  `json:"type"`
	ParentId  *string   `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Content    *string     `json:"content,omitempty"`
	Icon       *string     `json:"icon,omitempty"`
	CoverImage *string     `json:"coverImage,omitempty"`
	PaperStyle *PaperStyle `json:"paperStyle,omitempty"`

	Slides []Slide            `json:"slides"`
	Theme  *PresentationTheme `json:"theme,omitempty"`

	Schema       []PropertySchema `json:"schema"`
	Views        []View           `json:"views"`
	ActiveViewId *string          `json:"activeViewId,omitempty"`

	// Properties holds values keyed by the parent database's property ids.
	Properties map[string]any `json:"properties"`
}

// ItemPatch is a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Name         *string
	Content      *string
	Icon         *string
	CoverImage   *string
	PaperStyle   *PaperStyle
	Slides       []Slide
	Theme        *PresentationTheme
	Schema       []PropertySchema
	Views        []View
	ActiveViewId *string
	Properties   map[string]any
	Parent       *ParentRef
}

// ParentRef carries a parent change; a nil Id moves the item to the root.
type ParentRef struct {
	Id *string
}

func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Content == nil && p.Icon == nil && p.CoverImage == nil &&
		p.PaperStyle == nil && p.Slides == nil && p.Theme == nil && p.Schema == nil &&
		p.Views == nil && p.ActiveViewId == nil && p.Properties == nil && p.Parent == nil
}

func (i *Item) IsRoot() bool {
	return i.ParentId == nil
}

func (i *Item) HasParent(id string) bool {
	return i.ParentId != nil && *i.ParentId == id
}

// PropertyValue resolves a property against the parent database schema.
// Values whose property id is no longer part of the schema resolve to nothing.
func (i *Item) PropertyValue(schema []PropertySchema, propertyId string) (any, bool) {
	if i.Properties == nil {
		return nil, false
	}
	known := false
	for _, p := range schema {
		if p.Id == propertyId {
			known = true
			break
		}
	}
	if !known {
		return nil, false
	}
	v, ok := i.Properties[propertyId]
	return v, ok
}

// Clone returns a deep copy so callers never share mutable state with the store.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	c.ParentId = cloneString(i.ParentId)
	c.Content = cloneString(i.Content)
	c.Icon = cloneString(i.Icon)
	c.CoverImage = cloneString(i.CoverImage)
	c.ActiveViewId = cloneString(i.ActiveViewId)
	if i.PaperStyle != nil {
		ps := *i.PaperStyle
		c.PaperStyle = &ps
	}
	if i.Theme != nil {
		th := *i.Theme
		c.Theme = &th
	}
	if i.Slides != nil {
		c.Slides = make([]Slide, len(i.Slides))
		copy(c.Slides, i.Slides)
	}
	if i.Views != nil {
		c.Views = make([]View, len(i.Views))
		copy(c.Views, i.Views)
	}
	if i.Schema != nil {
		c.Schema = make([]PropertySchema, len(i.Schema))
		for idx, p := range i.Schema {
			if p.Options != nil {
				opts := make([]PropertyOption, len(p.Options))
				copy(opts, p.Options)
				p.Options = opts
			}
			c.Schema[idx] = p
		}
	}
	if i.Properties != nil {
		c.Properties = cloneProperties(i.Properties)
	}
	return &c
}

func CloneItems(items []*Item) []*Item {
	out := make([]*Item, len(items))
	for idx, it := range items {
		out[idx] = it.Clone()
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneProperties(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case map[string]any:
		return cloneProperties(t)
	default:
		return v
	}
}

func StringPtr(s string) *string {
	return &s
}
