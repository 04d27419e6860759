package planner

import (
	"regexp"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/pkg/tree"
)

const SnippetLength = 150

var whitespace = regexp.MustCompile(`\s+`)

// PlanItem is the reduced view of an item sent to the planner.
type PlanItem struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	Type           entity.ItemKind `json:"type"`
	ParentId       *string         `json:"parentId"`
	ContentSnippet string          `json:"contentSnippet,omitempty"`
}

// BuildView reduces the collection for planning. Rows of databases are left out and only
// pages and meetings carry a snippet of their content.
func BuildView(items []*entity.Item) []PlanItem {
	byId := tree.IndexById(items)
	out := make([]PlanItem, 0, len(items))
	for _, it := range items {
		if tree.IsDatabaseChild(it, byId) {
			continue
		}
		pi := PlanItem{Id: it.Id, Name: it.Name, Type: it.Kind, ParentId: it.ParentId}
		if (it.Kind == entity.ItemKindPage || it.Kind == entity.ItemKindMeeting) && it.Content != nil && *it.Content != "" {
			pi.ContentSnippet = Snippet(*it.Content)
		}
		out = append(out, pi)
	}
	return out
}

// Snippet keeps the first SnippetLength characters, collapses whitespace runs and appends "...".
func Snippet(content string) string {
	r := []rune(content)
	if len(r) > SnippetLength {
		r = r[:SnippetLength]
	}
	return whitespace.ReplaceAllString(string(r), " ") + "..."
}
