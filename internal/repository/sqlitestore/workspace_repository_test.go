package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"
	"github.com/likhit-sai/CogniFlow/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *WorkspaceRepository {
	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "workspace.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestWorkspaceRepository(t *testing.T) {
	repotest.RunWorkspaceRepositoryTests(t, func(t *testing.T) contract.WorkspaceRepository {
		return openTemp(t)
	})
}

func TestWorkspaceRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "workspace.sqlite")
	ctx := context.Background()

	repo, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceAll(ctx, []*entity.Item{{Id: "page-1", Name: "Kept", Kind: entity.ItemKindPage}}))
	require.NoError(t, repo.Close())

	repo, err = Open(ctx, path)
	require.NoError(t, err)
	defer repo.Close()
	items, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Kept", items[0].Name)
}

func TestWorkspaceRepository_DuplicateIdsRollBack(t *testing.T) {
	repo := openTemp(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceAll(ctx, []*entity.Item{{Id: "page-1", Name: "Original", Kind: entity.ItemKindPage}}))

	err := repo.ReplaceAll(ctx, []*entity.Item{
		{Id: "dup", Kind: entity.ItemKindPage},
		{Id: "dup", Kind: entity.ItemKindPage},
	})
	require.Error(t, err)

	items, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Original", items[0].Name)
}
