package reorg

import (
	"fmt"

	"github.com/likhit-sai/CogniFlow/internal/entity"
)

// Describe renders each action as a line the user can confirm before the batch is applied.
// References to folders created earlier in the batch are shown by their name.
func Describe(items []*entity.Item, actions []entity.OrganizationAction) []string {
	names := make(map[string]string, len(items))
	for _, it := range items {
		names[it.Id] = it.Name
	}
	for _, act := range actions {
		if act.Action == entity.ActionCreateFolder && act.TempId != "" {
			names[act.TempId] = act.Name
		}
	}

	label := func(ref *string) string {
		if ref == nil {
			return "the root"
		}
		if n, ok := names[*ref]; ok {
			return fmt.Sprintf("%q", n)
		}
		return fmt.Sprintf("unknown item %s", *ref)
	}

	out := make([]string, 0, len(actions))
	for _, act := range actions {
		switch act.Action {
		case entity.ActionCreateFolder:
			out = append(out, fmt.Sprintf("Create folder %q in %s", act.Name, label(act.ParentId)))
		case entity.ActionMoveItem:
			out = append(out, fmt.Sprintf("Move %s into %s", label(&act.ItemId), label(act.NewParentId)))
		case entity.ActionRenameItem:
			out = append(out, fmt.Sprintf("Rename %s to %q", label(&act.ItemId), act.NewName))
		default:
			out = append(out, fmt.Sprintf("Unsupported action %q", act.Action))
		}
	}
	return out
}
