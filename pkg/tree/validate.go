package tree

import (
	"fmt"

	"github.com/likhit-sai/CogniFlow/internal/entity"
)

type IssueCode string

const (
	IssueDuplicateId    IssueCode = "duplicate_id"
	IssueDanglingParent IssueCode = "dangling_parent"
	IssueCycle          IssueCode = "cycle"
	IssueSelfParent     IssueCode = "self_parent"
)

type Issue struct {
	Code    IssueCode `json:"code"`
	ItemId  string    `json:"itemId"`
	Message string    `json:"message"`
}

// Validate checks the forest invariants. Dangling parents are reported but readers treat
// such items as roots.
func Validate(items []*entity.Item) []Issue {
	issues := make([]Issue, 0)
	byId := make(map[string]*entity.Item, len(items))
	for _, it := range items {
		if _, dup := byId[it.Id]; dup {
			issues = append(issues, Issue{
				Code:    IssueDuplicateId,
				ItemId:  it.Id,
				Message: fmt.Sprintf("id %q is used by more than one item", it.Id),
			})
			continue
		}
		byId[it.Id] = it
	}

	for _, it := range items {
		if it.ParentId == nil {
			continue
		}
		if *it.ParentId == it.Id {
			issues = append(issues, Issue{Code: IssueSelfParent, ItemId: it.Id, Message: "item is its own parent"})
			continue
		}
		if _, ok := byId[*it.ParentId]; !ok {
			issues = append(issues, Issue{
				Code:    IssueDanglingParent,
				ItemId:  it.Id,
				Message: fmt.Sprintf("parent %q does not exist", *it.ParentId),
			})
		}
	}

	reported := make(map[string]bool)
	for _, it := range items {
		if reported[it.Id] {
			continue
		}
		if cyc := cycleFrom(it, byId); len(cyc) > 1 {
			for _, id := range cyc {
				reported[id] = true
			}
			issues = append(issues, Issue{
				Code:    IssueCycle,
				ItemId:  it.Id,
				Message: fmt.Sprintf("parent chain loops through %v", cyc),
			})
		}
	}
	return issues
}

// cycleFrom walks up from start and returns the ids forming a loop, if the walk enters one.
func cycleFrom(start *entity.Item, byId map[string]*entity.Item) []string {
	pos := make(map[string]int)
	path := make([]string, 0)
	cur := start
	for cur != nil {
		if at, seen := pos[cur.Id]; seen {
			return path[at:]
		}
		pos[cur.Id] = len(path)
		path = append(path, cur.Id)
		if cur.ParentId == nil {
			return nil
		}
		cur = byId[*cur.ParentId]
	}
	return nil
}

// Ancestors returns the parent chain of id from the direct parent up to the root.
// The walk stops at a missing parent or if it revisits an item.
func Ancestors(items []*entity.Item, id string) []*entity.Item {
	byId := IndexById(items)
	out := make([]*entity.Item, 0)
	seen := map[string]bool{id: true}
	cur, ok := byId[id]
	for ok && cur.ParentId != nil {
		parent, exists := byId[*cur.ParentId]
		if !exists || seen[parent.Id] {
			break
		}
		seen[parent.Id] = true
		out = append(out, parent)
		cur = parent
	}
	return out
}

// WouldCycle reports whether re-parenting itemId under newParentId makes the item its own ancestor.
func WouldCycle(items []*entity.Item, itemId string, newParentId *string) bool {
	if newParentId == nil {
		return false
	}
	if *newParentId == itemId {
		return true
	}
	for _, a := range Ancestors(items, *newParentId) {
		if a.Id == itemId {
			return true
		}
	}
	return false
}
