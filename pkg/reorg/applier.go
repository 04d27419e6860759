package reorg

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/pkg/tree"
)

var (
	ErrMissingTempID   = errors.New("CREATE_FOLDER action without tempId")
	ErrDuplicateTempID = errors.New("tempId used by more than one CREATE_FOLDER action")
)

type SkipReason string

const (
	SkipUnknownItem   SkipReason = "unknown_item"
	SkipUnknownParent SkipReason = "unknown_parent"
	SkipCycle         SkipReason = "cycle"
	SkipEmptyName     SkipReason = "empty_name"
	SkipUnknownAction SkipReason = "unknown_action"
)

// Skip records an action of the batch that was not applied.
type Skip struct {
	Index  int                       `json:"index"`
	Action entity.OrganizationAction `json:"action"`
	Reason SkipReason                `json:"reason"`
}

type Result struct {
	// Items is the reorganized collection, to be installed in a single transition.
	Items []*entity.Item
	// TempIds maps every CREATE_FOLDER tempId to the id of the folder created for it.
	TempIds  map[string]string
	Created  []string
	Changed  []string
	Skipped  []Skip
	Warnings []string
}

type Options struct {
	NewID func(kind entity.ItemKind) string
	Now   func() time.Time
}

type Applier struct {
	newId func(kind entity.ItemKind) string
	now   func() time.Time
}

func NewApplier(opts Options) *Applier {
	a := &Applier{newId: opts.NewID, now: opts.Now}
	if a.newId == nil {
		a.newId = func(kind entity.ItemKind) string {
			return fmt.Sprintf("%s-%s", kind, uuid.NewString())
		}
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Apply runs the batch against items and returns the new collection. The input is never
// modified. An invalid batch is rejected as a whole.
func (a *Applier) Apply(items []*entity.Item, actions []entity.OrganizationAction) (*Result, error) {
	res := &Result{
		Items:    items,
		TempIds:  make(map[string]string),
		Created:  make([]string, 0),
		Changed:  make([]string, 0),
		Skipped:  make([]Skip, 0),
		Warnings: make([]string, 0),
	}
	if len(actions) == 0 {
		return res, nil
	}
	if err := validateTempIds(actions); err != nil {
		return nil, err
	}

	now := a.now().UTC().Truncate(time.Millisecond)
	work := entity.CloneItems(items)

	// Pass 1: materialize every folder before anything refers to it.
	created := make([]*entity.Item, 0)
	createdFrom := make([]entity.OrganizationAction, 0)
	for _, act := range actions {
		if act.Action != entity.ActionCreateFolder {
			continue
		}
		folder := &entity.Item{
			Id:        a.newId(entity.ItemKindFolder),
			Name:      act.Name,
			Kind:      entity.ItemKindFolder,
			CreatedAt: now,
			UpdatedAt: now,
		}
		res.TempIds[act.TempId] = folder.Id
		res.Created = append(res.Created, folder.Id)
		created = append(created, folder)
		createdFrom = append(createdFrom, act)
	}
	work = append(work, created...)

	existing := tree.IndexById(work)
	for i, folder := range created {
		act := createdFrom[i]
		if act.ParentId == nil {
			continue
		}
		parent, ok := a.resolve(*act.ParentId, res.TempIds, existing)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("folder %q: parent %q does not exist, created at the root", act.Name, *act.ParentId))
			continue
		}
		if tree.WouldCycle(work, folder.Id, &parent) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("folder %q: parent %q would create a loop, created at the root", act.Name, *act.ParentId))
			continue
		}
		folder.ParentId = entity.StringPtr(parent)
	}

	// Pass 2: apply moves and renames per item, in batch order.
	byTarget := make(map[string][]int)
	for idx, act := range actions {
		switch act.Action {
		case entity.ActionCreateFolder:
			continue
		case entity.ActionMoveItem, entity.ActionRenameItem:
			target := act.ItemId
			if real, ok := res.TempIds[target]; ok {
				target = real
			}
			if _, ok := existing[target]; !ok {
				res.Skipped = append(res.Skipped, Skip{Index: idx, Action: act, Reason: SkipUnknownItem})
				continue
			}
			byTarget[target] = append(byTarget[target], idx)
		default:
			res.Skipped = append(res.Skipped, Skip{Index: idx, Action: act, Reason: SkipUnknownAction})
		}
	}

	for _, it := range work {
		indexes := byTarget[it.Id]
		if len(indexes) == 0 {
			continue
		}
		changed := false
		for _, idx := range indexes {
			act := actions[idx]
			switch act.Action {
			case entity.ActionMoveItem:
				var parent *string
				if act.NewParentId != nil {
					resolved, ok := a.resolve(*act.NewParentId, res.TempIds, existing)
					if !ok {
						res.Skipped = append(res.Skipped, Skip{Index: idx, Action: act, Reason: SkipUnknownParent})
						continue
					}
					parent = entity.StringPtr(resolved)
				}
				if tree.WouldCycle(work, it.Id, parent) {
					res.Skipped = append(res.Skipped, Skip{Index: idx, Action: act, Reason: SkipCycle})
					continue
				}
				if !sameParent(it.ParentId, parent) {
					it.ParentId = parent
					changed = true
				}
			case entity.ActionRenameItem:
				if act.NewName == "" {
					res.Skipped = append(res.Skipped, Skip{Index: idx, Action: act, Reason: SkipEmptyName})
					continue
				}
				if it.Name != act.NewName {
					it.Name = act.NewName
					changed = true
				}
			}
		}
		if changed {
			it.UpdatedAt = now
			res.Changed = append(res.Changed, it.Id)
		}
	}

	res.Items = work
	return res, nil
}

// resolve maps a reference to a real id: tempIds first, then ids already in the collection.
func (a *Applier) resolve(ref string, tempIds map[string]string, existing map[string]*entity.Item) (string, bool) {
	if real, ok := tempIds[ref]; ok {
		return real, true
	}
	if _, ok := existing[ref]; ok {
		return ref, true
	}
	return "", false
}

func validateTempIds(actions []entity.OrganizationAction) error {
	seen := make(map[string]bool)
	for idx, act := range actions {
		if act.Action != entity.ActionCreateFolder {
			continue
		}
		if act.TempId == "" {
			return fmt.Errorf("action %d: %w", idx, ErrMissingTempID)
		}
		if seen[act.TempId] {
			return fmt.Errorf("action %d (%s): %w", idx, act.TempId, ErrDuplicateTempID)
		}
		seen[act.TempId] = true
	}
	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
