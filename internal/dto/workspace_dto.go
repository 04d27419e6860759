package dto

import (
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/pkg/reorg"
	"github.com/likhit-sai/CogniFlow/pkg/tree"
)

type CreateItemRequest struct {
	Name       string         `json:"name" validate:"required,max=200"`
	Type       string         `json:"type" validate:"required,oneof=folder page database spreadsheet presentation meeting sketch"`
	ParentId   *string        `json:"parentId"`
	SetActive  *bool          `json:"setActive"`
	Properties map[string]any `json:"properties"`
	Content    *string        `json:"content"`
}

type CreateItemResponse struct {
	Id       string  `json:"id"`
	ActiveId *string `json:"activeId"`
}

// ParentRequest wraps the new parent so that {"parent": {"id": null}} can express a move to the root.
type ParentRequest struct {
	Id *string `json:"id"`
}

type UpdateItemRequest struct {
	Id           string                  `json:"-"`
	Name         *string                 `json:"name" validate:"omitempty,max=200"`
	Content      *string                 `json:"content"`
	Icon         *string                 `json:"icon"`
	CoverImage   *string                 `json:"coverImage"`
	PaperStyle   *string                 `json:"paperStyle" validate:"omitempty,oneof=plain lined grid dotted four-line"`
	Slides       []entity.Slide          `json:"slides"`
	Theme        *string                 `json:"theme" validate:"omitempty,oneof=default-dark professional galaxy playful"`
	Schema       []entity.PropertySchema `json:"schema"`
	Views        []entity.View           `json:"views"`
	ActiveViewId *string                 `json:"activeViewId"`
	Properties   map[string]any          `json:"properties"`
	Parent       *ParentRequest          `json:"parent"`
}

func (r *UpdateItemRequest) Patch() entity.ItemPatch {
	p := entity.ItemPatch{
		Name:         r.Name,
		Content:      r.Content,
		Icon:         r.Icon,
		CoverImage:   r.CoverImage,
		Slides:       r.Slides,
		Schema:       r.Schema,
		Views:        r.Views,
		ActiveViewId: r.ActiveViewId,
		Properties:   r.Properties,
	}
	if r.PaperStyle != nil {
		ps := entity.PaperStyle(*r.PaperStyle)
		p.PaperStyle = &ps
	}
	if r.Theme != nil {
		th := entity.PresentationTheme(*r.Theme)
		p.Theme = &th
	}
	if r.Parent != nil {
		p.Parent = &entity.ParentRef{Id: r.Parent.Id}
	}
	return p
}

// BreadcrumbItem is one ancestor of an item, ordered from the root down.
type BreadcrumbItem struct {
	Id   string          `json:"id"`
	Name string          `json:"name"`
	Type entity.ItemKind `json:"type"`
}

type ShowItemResponse struct {
	*entity.Item
	Breadcrumb []BreadcrumbItem `json:"breadcrumb"`
}

// SearchResponse lists the items to show for a name query: the matches plus their ancestors.
type SearchResponse struct {
	Query      string         `json:"query"`
	Items      []*entity.Item `json:"items"`
	MatchedIds []string       `json:"matchedIds"`
}

type DeleteItemResponse struct {
	RemovedIds []string `json:"removedIds"`
	ActiveId   *string  `json:"activeId"`
}

type SetActiveRequest struct {
	Id *string `json:"id"`
}

type ActiveResponse struct {
	ActiveId *string `json:"activeId"`
}

type SaveStatusResponse struct {
	State         entity.SaveState `json:"state"`
	Error         string           `json:"error,omitempty"`
	Pending       bool             `json:"pending"`
	LastSavedAt   *time.Time       `json:"lastSavedAt,omitempty"`
	LastAttemptAt *time.Time       `json:"lastAttemptAt,omitempty"`
	Seq           uint64           `json:"seq"`
}

type OrganizationPlanResponse struct {
	PlanId       string                      `json:"planId,omitempty"`
	Actions      []entity.OrganizationAction `json:"actions"`
	Descriptions []string                    `json:"descriptions"`
	Error        string                      `json:"error,omitempty"`
	ExpiresAt    *time.Time                  `json:"expiresAt,omitempty"`
}

type ApplyPlanResponse struct {
	PlanId   string       `json:"planId"`
	Created  []string     `json:"created"`
	Changed  []string     `json:"changed"`
	Skipped  []reorg.Skip `json:"skipped"`
	Warnings []string     `json:"warnings"`
}

type AssistRequest struct {
	ItemId string  `json:"-"`
	Action string  `json:"action" validate:"required,oneof=summarize improve brainstorm"`
	Text   *string `json:"text"`
}

type AssistResponse struct {
	ItemId string `json:"itemId"`
	Action string `json:"action"`
	Result string `json:"result"`
}

type GeneratePresentationRequest struct {
	Topic  string  `json:"topic" validate:"required,max=500"`
	ItemId *string `json:"itemId"`
}

type GeneratePresentationResponse struct {
	Slides []entity.Slide `json:"slides"`
}

type ValidateResponse struct {
	Valid  bool         `json:"valid"`
	Issues []tree.Issue `json:"issues"`
}
