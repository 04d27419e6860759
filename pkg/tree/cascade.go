package tree

import (
	"github.com/likhit-sai/CogniFlow/internal/entity"
)

// CollectCascade returns the target id plus every transitive descendant. It rescans the
// whole collection until a full pass adds nothing, so the input does not need to be sorted
// by depth. O(depth * n).
func CollectCascade(items []*entity.Item, targetId string) map[string]struct{} {
	removed := map[string]struct{}{targetId: {}}
	for {
		before := len(removed)
		for _, it := range items {
			if it.ParentId == nil {
				continue
			}
			if _, ok := removed[*it.ParentId]; ok {
				removed[it.Id] = struct{}{}
			}
		}
		if len(removed) == before {
			return removed
		}
	}
}

// CollectCascadeIndexed computes the same closure as CollectCascade with a
// parent -> children index and a single traversal.
func CollectCascadeIndexed(items []*entity.Item, targetId string) map[string]struct{} {
	children := ChildrenIndex(items)
	removed := map[string]struct{}{targetId: {}}
	queue := []string{targetId}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if _, seen := removed[child.Id]; seen {
				continue
			}
			removed[child.Id] = struct{}{}
			queue = append(queue, child.Id)
		}
	}
	return removed
}

// ChildrenIndex maps parent id to its direct children, preserving collection order.
func ChildrenIndex(items []*entity.Item) map[string][]*entity.Item {
	idx := make(map[string][]*entity.Item)
	for _, it := range items {
		if it.ParentId == nil {
			continue
		}
		idx[*it.ParentId] = append(idx[*it.ParentId], it)
	}
	return idx
}

func IndexById(items []*entity.Item) map[string]*entity.Item {
	idx := make(map[string]*entity.Item, len(items))
	for _, it := range items {
		idx[it.Id] = it
	}
	return idx
}

// Remaining filters out every removed id, keeping order.
func Remaining(items []*entity.Item, removed map[string]struct{}) []*entity.Item {
	out := make([]*entity.Item, 0, len(items))
	for _, it := range items {
		if _, gone := removed[it.Id]; gone {
			continue
		}
		out = append(out, it)
	}
	return out
}

// IsDatabaseChild reports whether the item lives inside a database (its parent is a database).
func IsDatabaseChild(it *entity.Item, byId map[string]*entity.Item) bool {
	if it.ParentId == nil {
		return false
	}
	parent, ok := byId[*it.ParentId]
	return ok && parent.Kind == entity.ItemKindDatabase
}

// InitialActive picks the item selected after a load: the first page that is not
// inside a database, else the first item, else nothing.
func InitialActive(items []*entity.Item) *string {
	byId := IndexById(items)
	for _, it := range items {
		if it.Kind == entity.ItemKindPage && !IsDatabaseChild(it, byId) {
			return entity.StringPtr(it.Id)
		}
	}
	if len(items) > 0 {
		return entity.StringPtr(items[0].Id)
	}
	return nil
}

// NextActive decides the active item after a deletion. When the active item survived it is
// kept. Otherwise the former parent of the active item is preferred if it survived, then the
// first remaining page outside any database, then the first remaining item.
func NextActive(before, after []*entity.Item, removed map[string]struct{}, activeId *string) *string {
	if activeId == nil {
		return nil
	}
	if _, gone := removed[*activeId]; !gone {
		return entity.StringPtr(*activeId)
	}

	var parentId *string
	for _, it := range before {
		if it.Id == *activeId {
			parentId = it.ParentId
			break
		}
	}
	if parentId != nil {
		if _, gone := removed[*parentId]; !gone {
			for _, it := range after {
				if it.Id == *parentId {
					return entity.StringPtr(it.Id)
				}
			}
		}
	}

	return InitialActive(after)
}
