package mapper

import (
	"encoding/json"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/model"

	"gorm.io/datatypes"
)

type WorkspaceItemMapper struct{}

func NewWorkspaceItemMapper() *WorkspaceItemMapper {
	return &WorkspaceItemMapper{}
}

// itemPayload holds the kind specific fields of an item.
type itemPayload struct {
	Content      *string                   `json:"content,omitempty"`
	Icon         *string                   `json:"icon,omitempty"`
	CoverImage   *string                   `json:"coverImage,omitempty"`
	PaperStyle   *entity.PaperStyle        `json:"paperStyle,omitempty"`
	Slides       []entity.Slide            `json:"slides"`
	Theme        *entity.PresentationTheme `json:"theme,omitempty"`
	Schema       []entity.PropertySchema   `json:"schema"`
	Views        []entity.View             `json:"views"`
	ActiveViewId *string                   `json:"activeViewId,omitempty"`
	Properties   map[string]any            `json:"properties"`
}

func (m *WorkspaceItemMapper) ToModel(it *entity.Item, position int) (*model.WorkspaceItem, error) {
	if it == nil {
		return nil, nil
	}
	payload, err := json.Marshal(itemPayload{
		Content:      it.Content,
		Icon:         it.Icon,
		CoverImage:   it.CoverImage,
		PaperStyle:   it.PaperStyle,
		Slides:       it.Slides,
		Theme:        it.Theme,
		Schema:       it.Schema,
		Views:        it.Views,
		ActiveViewId: it.ActiveViewId,
		Properties:   it.Properties,
	})
	if err != nil {
		return nil, err
	}
	return &model.WorkspaceItem{
		Id:        it.Id,
		Position:  position,
		Name:      it.Name,
		Kind:      string(it.Kind),
		ParentId:  it.ParentId,
		Payload:   datatypes.JSON(payload),
		CreatedAt: it.CreatedAt.UTC(),
		UpdatedAt: it.UpdatedAt.UTC(),
	}, nil
}

func (m *WorkspaceItemMapper) ToEntity(w *model.WorkspaceItem) (*entity.Item, error) {
	if w == nil {
		return nil, nil
	}
	var p itemPayload
	if len(w.Payload) > 0 {
		if err := json.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
	}
	return &entity.Item{
		Id:           w.Id,
		Name:         w.Name,
		Kind:         entity.ItemKind(w.Kind),
		ParentId:     w.ParentId,
		CreatedAt:    w.CreatedAt.UTC(),
		UpdatedAt:    w.UpdatedAt.UTC(),
		Content:      p.Content,
		Icon:         p.Icon,
		CoverImage:   p.CoverImage,
		PaperStyle:   p.PaperStyle,
		Slides:       p.Slides,
		Theme:        p.Theme,
		Schema:       p.Schema,
		Views:        p.Views,
		ActiveViewId: p.ActiveViewId,
		Properties:   p.Properties,
	}, nil
}

func (m *WorkspaceItemMapper) ToEntities(rows []*model.WorkspaceItem) ([]*entity.Item, error) {
	items := make([]*entity.Item, len(rows))
	for i, r := range rows {
		it, err := m.ToEntity(r)
		if err != nil {
			return nil, err
		}
		items[i] = it
	}
	return items, nil
}

func (m *WorkspaceItemMapper) ToModels(items []*entity.Item) ([]*model.WorkspaceItem, error) {
	rows := make([]*model.WorkspaceItem, len(items))
	for i, it := range items {
		row, err := m.ToModel(it, i)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}
