package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"
	"github.com/likhit-sai/CogniFlow/internal/repository/repotest"
	"github.com/likhit-sai/CogniFlow/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceRepository(t *testing.T) {
	repotest.RunWorkspaceRepositoryTests(t, func(t *testing.T) contract.WorkspaceRepository {
		return NewWorkspaceRepository()
	})
}

func TestWorkspaceRepository_SeedOnFirstFetch(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := NewWorkspaceRepository(WithSeed(func() []*entity.Item { return seed.Workspace(now) }))

	items, err := repo.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 10)

	require.NoError(t, repo.ReplaceAll(context.Background(), items[:1]))
	items, err = repo.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, repo.SaveCount())

	repo.Reset()
	items, err = repo.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 10)
}

func TestWorkspaceRepository_Failure(t *testing.T) {
	repo := NewWorkspaceRepository()
	boom := errors.New("offline")
	repo.SetFailure(boom)

	_, err := repo.FetchAll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, repo.ReplaceAll(context.Background(), nil), boom)

	repo.SetFailure(nil)
	assert.NoError(t, repo.ReplaceAll(context.Background(), nil))
}

func TestWorkspaceRepository_LatencyHonoursContext(t *testing.T) {
	repo := NewWorkspaceRepository(WithLatency(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := repo.FetchAll(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPlanRepository(t *testing.T) {
	plans := NewPlanRepository(time.Minute)
	plans.Save(&entity.OrganizationPlan{Id: "plan-1"})

	got, ok := plans.Get("plan-1")
	require.True(t, ok)
	assert.Equal(t, "plan-1", got.Id)

	_, ok = plans.Take("plan-1")
	assert.True(t, ok)
	_, ok = plans.Take("plan-1")
	assert.False(t, ok)

	plans.Save(&entity.OrganizationPlan{Id: "plan-2"})
	assert.True(t, plans.Delete("plan-2"))
	assert.False(t, plans.Delete("plan-2"))
	assert.Equal(t, 0, plans.Count())
}
