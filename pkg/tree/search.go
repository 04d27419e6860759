package tree

import (
	"strings"

	"github.com/likhit-sai/CogniFlow/internal/entity"
)

// Search filters the collection by a case-insensitive substring of the item name.
// Matches keep their ancestors so the result still nests. Database rows never match
// and a blank query returns everything outside databases. Collection order is kept.
func Search(items []*entity.Item, query string) (visible []*entity.Item, matched []string) {
	byId := IndexById(items)
	q := strings.ToLower(strings.TrimSpace(query))

	visible = make([]*entity.Item, 0)
	matched = make([]string, 0)
	if q == "" {
		for _, it := range items {
			if !IsDatabaseChild(it, byId) {
				visible = append(visible, it)
			}
		}
		return visible, matched
	}

	keep := make(map[string]struct{})
	for _, it := range items {
		if IsDatabaseChild(it, byId) || !strings.Contains(strings.ToLower(it.Name), q) {
			continue
		}
		matched = append(matched, it.Id)
		keep[it.Id] = struct{}{}
		for p := it.ParentId; p != nil; {
			if _, seen := keep[*p]; seen {
				break
			}
			parent, ok := byId[*p]
			if !ok {
				break
			}
			keep[parent.Id] = struct{}{}
			p = parent.ParentId
		}
	}

	for _, it := range items {
		if _, ok := keep[it.Id]; ok {
			visible = append(visible, it)
		}
	}
	return visible, matched
}
