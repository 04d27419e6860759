package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/bootstrap"
	"github.com/likhit-sai/CogniFlow/internal/config"
	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/memory"
	"github.com/likhit-sai/CogniFlow/internal/seed"
	"github.com/likhit-sai/CogniFlow/pkg/ai/planner"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plannerFunc func(ctx context.Context, items []planner.PlanItem) ([]entity.OrganizationAction, error)

func (f plannerFunc) Plan(ctx context.Context, items []planner.PlanItem) ([]entity.OrganizationAction, error) {
	return f(ctx, items)
}

type cliFixture struct {
	repo    *memory.WorkspaceRepository
	actions []entity.OrganizationAction
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	app := &App{
		cfg: &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}},
		openStore: func(ctx context.Context, cfg *config.Config) (*bootstrap.RemoteStore, error) {
			return &bootstrap.RemoteStore{Driver: "memory", Repo: f.repo, Close: func() error { return nil }}, nil
		},
		openPlanner: func(cfg *config.Config) (planner.Planner, error) {
			return plannerFunc(func(ctx context.Context, items []planner.PlanItem) ([]entity.OrganizationAction, error) {
				return f.actions, nil
			}), nil
		},
	}

	cmd := newRootCmd(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newCliFixture() *cliFixture {
	return &cliFixture{repo: memory.NewWorkspaceRepository()}
}

func TestSeedCmd(t *testing.T) {
	f := newCliFixture()

	out, err := f.run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 10 items")

	items, err := f.repo.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 10)

	_, err = f.run(t, "seed")
	assert.ErrorIs(t, err, ErrNotEmpty)

	_, err = f.run(t, "seed", "--force")
	assert.NoError(t, err)
}

func TestTreeCmd(t *testing.T) {
	f := newCliFixture()
	require.NoError(t, f.repo.ReplaceAll(context.Background(), seed.Workspace(time.Now())))

	out, err := f.run(t, "tree", "--ids")
	require.NoError(t, err)
	assert.Contains(t, out, "Productivity Hub [folder] folder-1")
	assert.Contains(t, out, "    Fix login button bug [page] db-page-2")
}

func TestTreeCmd_Empty(t *testing.T) {
	out, err := newCliFixture().run(t, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "(empty workspace)")
}

func TestValidateCmd(t *testing.T) {
	f := newCliFixture()
	items := seed.Workspace(time.Now())
	require.NoError(t, f.repo.ReplaceAll(context.Background(), items))

	out, err := f.run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 10 items")

	items[1].ParentId = entity.StringPtr("missing")
	require.NoError(t, f.repo.ReplaceAll(context.Background(), items))

	out, err = f.run(t, "validate")
	assert.True(t, errors.Is(err, ErrIssuesFound))
	assert.Contains(t, out, "dangling_parent")
	assert.Contains(t, out, "page-1")
}

func TestMigrateCmd_RequiresPostgres(t *testing.T) {
	_, err := newCliFixture().run(t, "migrate")
	assert.ErrorIs(t, err, ErrNeedPostgres)
}

func TestOrganizeCmd(t *testing.T) {
	f := newCliFixture()
	require.NoError(t, f.repo.ReplaceAll(context.Background(), seed.Workspace(time.Now())))
	f.actions = []entity.OrganizationAction{
		entity.CreateFolderAction("Docs", nil, "temp-docs"),
		entity.MoveItemAction("page-1", entity.StringPtr("temp-docs")),
		entity.MoveItemAction("ghost", nil),
	}

	t.Run("dry run leaves the store alone", func(t *testing.T) {
		before := f.repo.SaveCount()
		out, err := f.run(t, "organize")
		require.NoError(t, err)
		assert.Contains(t, out, "Dry run")
		assert.Equal(t, before, f.repo.SaveCount())
	})

	t.Run("apply writes the plan", func(t *testing.T) {
		out, err := f.run(t, "organize", "--apply")
		require.NoError(t, err)
		assert.Contains(t, out, "skipped action 3")
		assert.Contains(t, out, "Applied: 1 folders created, 1 items changed")

		items, err := f.repo.FetchAll(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 11)

		var docs, page *entity.Item
		for _, it := range items {
			switch {
			case it.Name == "Docs":
				docs = it
			case it.Id == "page-1":
				page = it
			}
		}
		require.NotNil(t, docs)
		require.NotNil(t, page)
		require.NotNil(t, page.ParentId)
		assert.Equal(t, docs.Id, *page.ParentId)
	})
}

func TestOrganizeCmd_NoSuggestions(t *testing.T) {
	f := newCliFixture()
	out, err := f.run(t, "organize", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "No suggestions")
}

func TestWatchCmd_RequiresNatsURL(t *testing.T) {
	_, err := newCliFixture().run(t, "watch")
	assert.Error(t, err)
}
