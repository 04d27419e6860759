package store

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestStore() (*ItemStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	seq := 0
	s := New(
		WithClock(clock.Now),
		WithIDGenerator(func(kind entity.ItemKind) string {
			seq++
			return fmt.Sprintf("%s-%d", kind, seq)
		}),
	)
	return s, clock
}

func noActivate() CreateOptions {
	f := false
	return CreateOptions{SetActive: &f}
}

func TestCreate_KindDefaults(t *testing.T) {
	s, _ := newTestStore()

	tests := []struct {
		kind  entity.ItemKind
		check func(t *testing.T, it *entity.Item)
	}{
		{entity.ItemKindDatabase, func(t *testing.T, it *entity.Item) {
			require.Len(t, it.Schema, 1)
			assert.Equal(t, "prop-1", it.Schema[0].Id)
			assert.Equal(t, entity.PropertyTypeText, it.Schema[0].Type)
			require.Len(t, it.Views, 2)
			assert.Equal(t, entity.ViewTypeTable, it.Views[0].Type)
			assert.Equal(t, entity.ViewTypeGallery, it.Views[1].Type)
			assert.Equal(t, "view-1", *it.ActiveViewId)
			assert.Equal(t, "📦", *it.Icon)
		}},
		{entity.ItemKindSpreadsheet, func(t *testing.T, it *entity.Item) {
			var grid [][]string
			require.NoError(t, json.Unmarshal([]byte(*it.Content), &grid))
			require.Len(t, grid, 20)
			assert.Len(t, grid[0], 10)
			assert.Equal(t, "📊", *it.Icon)
		}},
		{entity.ItemKindPresentation, func(t *testing.T, it *entity.Item) {
			require.Len(t, it.Slides, 1)
			assert.Equal(t, "Title Slide", it.Slides[0].Title)
			assert.Equal(t, entity.ThemeDefaultDark, *it.Theme)
		}},
		{entity.ItemKindMeeting, func(t *testing.T, it *entity.Item) {
			assert.Contains(t, *it.Content, "# Standup")
			assert.Contains(t, *it.Content, "### Agenda")
			assert.Contains(t, *it.Content, "### Notes")
		}},
		{entity.ItemKindSketch, func(t *testing.T, it *entity.Item) {
			assert.Equal(t, "", *it.Content)
			assert.Equal(t, entity.PaperStylePlain, *it.PaperStyle)
		}},
		{entity.ItemKindPage, func(t *testing.T, it *entity.Item) {
			assert.Equal(t, "# Standup\n\n", *it.Content)
			assert.Equal(t, "📄", *it.Icon)
		}},
		{entity.ItemKindFolder, func(t *testing.T, it *entity.Item) {
			assert.Nil(t, it.Content)
			assert.Nil(t, it.Icon)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			id, err := s.Create("Standup", tt.kind, nil, CreateOptions{})
			require.NoError(t, err)
			it, ok := s.Get(id)
			require.True(t, ok)
			assert.Equal(t, tt.kind, it.Kind)
			assert.Equal(t, it.CreatedAt, it.UpdatedAt)
			tt.check(t, it)
		})
	}
}

func TestCreate_ActiveSelection(t *testing.T) {
	s, _ := newTestStore()

	first, err := s.Create("First", entity.ItemKindPage, nil, CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, *s.ActiveID())

	_, err = s.Create("Row", entity.ItemKindPage, nil, noActivate())
	require.NoError(t, err)
	assert.Equal(t, first, *s.ActiveID())
}

func TestCreate_Errors(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.Create("x", entity.ItemKind("video"), nil, CreateOptions{})
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = s.Create("x", entity.ItemKindPage, entity.StringPtr("ghost"), CreateOptions{})
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "parent", nf.Kind)
	assert.Equal(t, 0, s.Len())
}

func TestCreate_PageWithPropertiesInsideDatabase(t *testing.T) {
	s, _ := newTestStore()
	db, err := s.Create("Roadmap", entity.ItemKindDatabase, nil, CreateOptions{})
	require.NoError(t, err)

	props := map[string]any{"prop-1": "Launch"}
	row, err := s.Create("Launch", entity.ItemKindPage, &db, CreateOptions{Properties: props, Content: entity.StringPtr("body")})
	require.NoError(t, err)

	props["prop-1"] = "mutated by caller"
	it, _ := s.Get(row)
	assert.Equal(t, "Launch", it.Properties["prop-1"])
	assert.Equal(t, "body", *it.Content)
}

func TestUpdate(t *testing.T) {
	s, clock := newTestStore()
	id, err := s.Create("Draft", entity.ItemKindPage, nil, CreateOptions{})
	require.NoError(t, err)
	before, _ := s.Get(id)

	clock.Advance(time.Second)
	require.NoError(t, s.Update(id, entity.ItemPatch{Name: entity.StringPtr("Final"), Content: entity.StringPtr("done")}))

	after, _ := s.Get(id)
	assert.Equal(t, "Final", after.Name)
	assert.Equal(t, "done", *after.Content)
	assert.Equal(t, before.Icon, after.Icon)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestUpdate_MissingItemIsReported(t *testing.T) {
	s, _ := newTestStore()
	err := s.Update("ghost", entity.ItemPatch{Name: entity.StringPtr("x")})
	assert.True(t, IsNotFound(err))
}

func TestUpdate_Move(t *testing.T) {
	s, _ := newTestStore()
	a, _ := s.Create("A", entity.ItemKindFolder, nil, noActivate())
	b, _ := s.Create("B", entity.ItemKindFolder, &a, noActivate())
	p, _ := s.Create("P", entity.ItemKindPage, nil, noActivate())

	require.NoError(t, s.Update(p, entity.ItemPatch{Parent: &entity.ParentRef{Id: &b}}))
	moved, _ := s.Get(p)
	assert.Equal(t, b, *moved.ParentId)

	assert.ErrorIs(t, s.Update(a, entity.ItemPatch{Parent: &entity.ParentRef{Id: &b}}), ErrCycle)
	assert.ErrorIs(t, s.Update(a, entity.ItemPatch{Parent: &entity.ParentRef{Id: &a}}), ErrCycle)
	assert.True(t, IsNotFound(s.Update(a, entity.ItemPatch{Parent: &entity.ParentRef{Id: entity.StringPtr("ghost")}})))

	require.NoError(t, s.Update(p, entity.ItemPatch{Parent: &entity.ParentRef{}}))
	moved, _ = s.Get(p)
	assert.Nil(t, moved.ParentId)
}

func TestDelete_CascadesAndMovesSelection(t *testing.T) {
	s, _ := newTestStore()
	folder, _ := s.Create("Folder", entity.ItemKindFolder, nil, noActivate())
	sub, _ := s.Create("Sub", entity.ItemKindFolder, &folder, noActivate())
	leaf, _ := s.Create("Leaf", entity.ItemKindPage, &sub, CreateOptions{})
	other, _ := s.Create("Other", entity.ItemKindPage, nil, noActivate())

	res, err := s.Delete(leaf)
	require.NoError(t, err)
	assert.Equal(t, []string{leaf}, res.Removed)
	assert.Equal(t, sub, *res.ActiveId)

	res, err = s.Delete(folder)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{folder, sub}, res.Removed)
	assert.Equal(t, other, *res.ActiveId)
	assert.Equal(t, 1, s.Len())

	_, err = s.Delete(folder)
	assert.True(t, IsNotFound(err))
}

func TestLoad_InitialActiveSkipsDatabaseRows(t *testing.T) {
	s, _ := newTestStore()
	db := &entity.Item{Id: "db-1", Kind: entity.ItemKindDatabase}
	row := &entity.Item{Id: "row-1", Kind: entity.ItemKindPage, ParentId: entity.StringPtr("db-1")}
	page := &entity.Item{Id: "page-1", Kind: entity.ItemKindPage}

	s.Load([]*entity.Item{db, row, page})
	require.NotNil(t, s.ActiveID())
	assert.Equal(t, "page-1", *s.ActiveID())
	assert.True(t, s.Loaded())

	s.Load(nil)
	assert.Nil(t, s.ActiveID())
}

func TestChildrenOf_OrphansListedWithRoots(t *testing.T) {
	s, _ := newTestStore()
	s.Load([]*entity.Item{
		{Id: "root", Kind: entity.ItemKindFolder},
		{Id: "child", Kind: entity.ItemKindPage, ParentId: entity.StringPtr("root")},
		{Id: "orphan", Kind: entity.ItemKindPage, ParentId: entity.StringPtr("ghost")},
	})

	roots := s.ChildrenOf(nil)
	require.Len(t, roots, 2)
	assert.Equal(t, "root", roots[0].Id)
	assert.Equal(t, "orphan", roots[1].Id)

	children := s.ChildrenOf(entity.StringPtr("root"))
	require.Len(t, children, 1)
	assert.Equal(t, "child", children[0].Id)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s, _ := newTestStore()
	id, _ := s.Create("Page", entity.ItemKindPage, nil, CreateOptions{})

	snap := s.Snapshot()
	snap[0].Name = "changed outside"
	*snap[0].Content = "changed outside"

	it, _ := s.Get(id)
	assert.Equal(t, "Page", it.Name)
	assert.Equal(t, "# Page\n\n", *it.Content)
}

func TestReplace_KeepsSurvivingSelection(t *testing.T) {
	s, _ := newTestStore()
	id, _ := s.Create("Page", entity.ItemKindPage, nil, CreateOptions{})
	items := s.Snapshot()
	items = append(items, &entity.Item{Id: "folder-x", Kind: entity.ItemKindFolder})

	s.Replace(items, "reorganize")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, id, *s.ActiveID())
}

func TestSubscribe(t *testing.T) {
	s, _ := newTestStore()
	var got []Change
	unsubscribe := s.Subscribe(func(c Change) {
		// Reading inside the callback must not deadlock.
		_ = s.Len()
		got = append(got, c)
	})

	id, _ := s.Create("Page", entity.ItemKindPage, nil, CreateOptions{})
	_ = s.Update(id, entity.ItemPatch{Name: entity.StringPtr("Renamed")})
	_ = s.SetActive(nil)
	_, _ = s.Delete(id)
	unsubscribe()
	_, _ = s.Create("Ignored", entity.ItemKindPage, nil, CreateOptions{})

	require.Len(t, got, 4)
	assert.Equal(t, ChangeCreated, got[0].Type)
	assert.Equal(t, ChangeUpdated, got[1].Type)
	assert.Equal(t, ChangeActive, got[2].Type)
	assert.False(t, got[2].Persistable())
	assert.Equal(t, ChangeDeleted, got[3].Type)
	assert.True(t, got[3].Persistable())
}

func TestSetActive_UnknownItem(t *testing.T) {
	s, _ := newTestStore()
	assert.True(t, IsNotFound(s.SetActive(entity.StringPtr("ghost"))))
}

func TestReset(t *testing.T) {
	s, _ := newTestStore()
	_, _ = s.Create("Page", entity.ItemKindPage, nil, CreateOptions{})
	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.ActiveID())
	assert.False(t, s.Loaded())
}
