package reorg

import (
	"fmt"
	"testing"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	created = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	applied = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

func newTestApplier() *Applier {
	seq := 0
	return NewApplier(Options{
		NewID: func(kind entity.ItemKind) string {
			seq++
			return fmt.Sprintf("%s-new-%d", kind, seq)
		},
		Now: func() time.Time { return applied },
	})
}

func item(id string, kind entity.ItemKind, parent *string) *entity.Item {
	return &entity.Item{Id: id, Name: id, Kind: kind, ParentId: parent, CreatedAt: created, UpdatedAt: created}
}

func workspace() []*entity.Item {
	return []*entity.Item{
		item("folder-1", entity.ItemKindFolder, nil),
		item("page-1", entity.ItemKindPage, nil),
		item("page-2", entity.ItemKindPage, entity.StringPtr("folder-1")),
		item("meeting-1", entity.ItemKindMeeting, nil),
	}
}

func find(items []*entity.Item, id string) *entity.Item {
	return tree.IndexById(items)[id]
}

func TestApply_EmptyBatchIsNoop(t *testing.T) {
	items := workspace()
	res, err := newTestApplier().Apply(items, nil)
	require.NoError(t, err)
	assert.Equal(t, items, res.Items)
	assert.Empty(t, res.Changed)
	assert.Empty(t, res.Created)
}

func TestApply_TempIdResolution(t *testing.T) {
	items := workspace()
	actions := []entity.OrganizationAction{
		entity.MoveItemAction("page-1", entity.StringPtr("temp-notes")),
		entity.CreateFolderAction("Notes", nil, "temp-notes"),
		entity.CreateFolderAction("Meetings", entity.StringPtr("temp-notes"), "temp-meetings"),
		entity.MoveItemAction("meeting-1", entity.StringPtr("temp-meetings")),
		entity.RenameItemAction("page-2", "Quarterly plan"),
	}

	res, err := newTestApplier().Apply(items, actions)
	require.NoError(t, err)

	notesId := res.TempIds["temp-notes"]
	meetingsId := res.TempIds["temp-meetings"]
	assert.Equal(t, "folder-new-1", notesId)
	assert.Equal(t, "folder-new-2", meetingsId)
	assert.Equal(t, []string{notesId, meetingsId}, res.Created)
	require.Len(t, res.Items, 6)

	meetings := find(res.Items, meetingsId)
	require.NotNil(t, meetings.ParentId)
	assert.Equal(t, notesId, *meetings.ParentId)
	assert.Equal(t, applied, meetings.CreatedAt)

	assert.Equal(t, notesId, *find(res.Items, "page-1").ParentId)
	assert.Equal(t, meetingsId, *find(res.Items, "meeting-1").ParentId)
	assert.Equal(t, "Quarterly plan", find(res.Items, "page-2").Name)
	assert.Equal(t, applied, find(res.Items, "page-2").UpdatedAt)
	assert.Equal(t, created, find(res.Items, "folder-1").UpdatedAt)
	assert.ElementsMatch(t, []string{"page-1", "page-2", "meeting-1"}, res.Changed)
	assert.Empty(t, res.Skipped)
	assert.Empty(t, tree.Validate(res.Items))

	// The input is untouched.
	assert.Nil(t, items[1].ParentId)
	assert.Equal(t, "page-2", items[2].Name)
}

func TestApply_RejectsBadTempIds(t *testing.T) {
	items := workspace()

	_, err := newTestApplier().Apply(items, []entity.OrganizationAction{
		entity.CreateFolderAction("A", nil, "t1"),
		entity.CreateFolderAction("B", nil, "t1"),
	})
	assert.ErrorIs(t, err, ErrDuplicateTempID)

	_, err = newTestApplier().Apply(items, []entity.OrganizationAction{
		entity.CreateFolderAction("A", nil, ""),
	})
	assert.ErrorIs(t, err, ErrMissingTempID)
	assert.Len(t, items, 4)
}

func TestApply_UnknownCreateParentFallsBackToRoot(t *testing.T) {
	res, err := newTestApplier().Apply(workspace(), []entity.OrganizationAction{
		entity.CreateFolderAction("Archive", entity.StringPtr("temp-missing"), "temp-archive"),
	})
	require.NoError(t, err)
	archive := find(res.Items, res.TempIds["temp-archive"])
	assert.Nil(t, archive.ParentId)
	require.Len(t, res.Warnings, 1)
	assert.Empty(t, tree.Validate(res.Items))
}

func TestApply_CreateUnderExistingFolder(t *testing.T) {
	res, err := newTestApplier().Apply(workspace(), []entity.OrganizationAction{
		entity.CreateFolderAction("Inner", entity.StringPtr("folder-1"), "temp-inner"),
	})
	require.NoError(t, err)
	assert.Equal(t, "folder-1", *find(res.Items, res.TempIds["temp-inner"]).ParentId)
}

func TestApply_SkipsInvalidMoves(t *testing.T) {
	actions := []entity.OrganizationAction{
		entity.MoveItemAction("folder-1", entity.StringPtr("page-2")),
		entity.MoveItemAction("page-1", entity.StringPtr("ghost")),
		entity.MoveItemAction("ghost", nil),
		entity.RenameItemAction("meeting-1", ""),
		{Action: "DELETE_ITEM", ItemId: "page-1"},
	}
	res, err := newTestApplier().Apply(workspace(), actions)
	require.NoError(t, err)

	reasons := make(map[int]SkipReason)
	for _, s := range res.Skipped {
		reasons[s.Index] = s.Reason
	}
	assert.Equal(t, map[int]SkipReason{
		0: SkipCycle,
		1: SkipUnknownParent,
		2: SkipUnknownItem,
		3: SkipEmptyName,
		4: SkipUnknownAction,
	}, reasons)
	assert.Empty(t, res.Changed)
	assert.Empty(t, tree.Validate(res.Items))
}

func TestApply_LastWriteWins(t *testing.T) {
	res, err := newTestApplier().Apply(workspace(), []entity.OrganizationAction{
		entity.RenameItemAction("page-1", "First"),
		entity.MoveItemAction("page-1", entity.StringPtr("folder-1")),
		entity.RenameItemAction("page-1", "Second"),
		entity.MoveItemAction("page-1", nil),
	})
	require.NoError(t, err)
	p := find(res.Items, "page-1")
	assert.Equal(t, "Second", p.Name)
	assert.Nil(t, p.ParentId)
}

func TestApply_MoveToRoot(t *testing.T) {
	res, err := newTestApplier().Apply(workspace(), []entity.OrganizationAction{
		entity.MoveItemAction("page-2", nil),
	})
	require.NoError(t, err)
	assert.Nil(t, find(res.Items, "page-2").ParentId)
	assert.Equal(t, []string{"page-2"}, res.Changed)
}

func TestDescribe(t *testing.T) {
	lines := Describe(workspace(), []entity.OrganizationAction{
		entity.CreateFolderAction("Notes", nil, "temp-notes"),
		entity.MoveItemAction("page-1", entity.StringPtr("temp-notes")),
		entity.RenameItemAction("page-2", "Plan"),
	})
	assert.Equal(t, []string{
		`Create folder "Notes" in the root`,
		`Move "page-1" into "Notes"`,
		`Rename "page-2" to "Plan"`,
	}, lines)
}
