// Package repotest holds the behaviour every WorkspaceRepository driver must show.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"
	"github.com/likhit-sai/CogniFlow/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 14, 15, 9, 26, 535000000, time.UTC)

// RunWorkspaceRepositoryTests exercises a driver. newRepo must return an empty store.
func RunWorkspaceRepositoryTests(t *testing.T, newRepo func(t *testing.T) contract.WorkspaceRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		items, err := newRepo(t).FetchAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("round trip keeps every field and the order", func(t *testing.T) {
		repo := newRepo(t)
		want := seed.Workspace(fixedNow)
		require.NoError(t, repo.ReplaceAll(ctx, want))

		got, err := repo.FetchAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("replace overwrites the whole collection", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, seed.Workspace(fixedNow)))

		next := []*entity.Item{
			{Id: "page-b", Name: "B", Kind: entity.ItemKindPage, CreatedAt: fixedNow, UpdatedAt: fixedNow},
			{Id: "page-a", Name: "A", Kind: entity.ItemKindPage, ParentId: entity.StringPtr("page-b"), CreatedAt: fixedNow, UpdatedAt: fixedNow},
		}
		require.NoError(t, repo.ReplaceAll(ctx, next))

		got, err := repo.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "page-b", got[0].Id)
		assert.Equal(t, "page-a", got[1].Id)
		assert.Equal(t, "page-b", *got[1].ParentId)
	})

	t.Run("empty collection is saved", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, seed.Workspace(fixedNow)))
		require.NoError(t, repo.ReplaceAll(ctx, []*entity.Item{}))

		got, err := repo.FetchAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty and missing payload collections stay distinct", func(t *testing.T) {
		repo := newRepo(t)
		theme := entity.ThemeDefaultDark
		want := []*entity.Item{
			{
				Id: "presentation-empty", Name: "Deck", Kind: entity.ItemKindPresentation,
				Slides: []entity.Slide{}, Theme: &theme,
				CreatedAt: fixedNow, UpdatedAt: fixedNow,
			},
			{
				Id: "db-empty", Name: "Table", Kind: entity.ItemKindDatabase,
				Schema: []entity.PropertySchema{{Id: "prop-1", Name: "Status", Type: entity.PropertyTypeStatus, Options: []entity.PropertyOption{}}},
				Views:  []entity.View{},
				CreatedAt: fixedNow, UpdatedAt: fixedNow,
			},
			{
				Id: "row-empty", Name: "Row", Kind: entity.ItemKindPage, ParentId: entity.StringPtr("db-empty"),
				Properties: map[string]any{},
				CreatedAt:  fixedNow, UpdatedAt: fixedNow,
			},
			{Id: "folder-bare", Name: "Bare", Kind: entity.ItemKindFolder, CreatedAt: fixedNow, UpdatedAt: fixedNow},
		}
		require.NoError(t, repo.ReplaceAll(ctx, want))

		got, err := repo.FetchAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		require.Len(t, got, 4)
		assert.NotNil(t, got[0].Slides)
		assert.Empty(t, got[0].Slides)
		assert.NotNil(t, got[1].Views)
		assert.NotNil(t, got[1].Schema[0].Options)
		assert.NotNil(t, got[2].Properties)
		assert.Nil(t, got[3].Slides)
		assert.Nil(t, got[3].Properties)
	})

	t.Run("fetched items are not shared", func(t *testing.T) {
		repo := newRepo(t)
		items := seed.Workspace(fixedNow)
		require.NoError(t, repo.ReplaceAll(ctx, items))
		items[0].Name = "mutated after save"

		got, err := repo.FetchAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Productivity Hub", got[0].Name)
	})
}
