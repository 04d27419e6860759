package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/config"
	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"
	"github.com/likhit-sai/CogniFlow/internal/repository/memory"
	"github.com/likhit-sai/CogniFlow/internal/repository/pgstore"
	"github.com/likhit-sai/CogniFlow/internal/repository/redisstore"
	"github.com/likhit-sai/CogniFlow/internal/repository/sqlitestore"
	"github.com/likhit-sai/CogniFlow/internal/repository/unitofwork"
	"github.com/likhit-sai/CogniFlow/internal/seed"
	"github.com/likhit-sai/CogniFlow/pkg/database"
)

// RemoteStore is the configured workspace repository together with its cleanup.
type RemoteStore struct {
	Driver string
	Repo   contract.WorkspaceRepository
	Close  func() error
}

// OpenRemoteStore connects the driver named by STORE_DRIVER. The memory driver starts
// from the seed workspace; the others start from whatever they already hold.
func OpenRemoteStore(ctx context.Context, cfg *config.Config) (*RemoteStore, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.StoreDriverMemory, "":
		repo := memory.NewWorkspaceRepository(
			memory.WithLatency(cfg.Store.MemoryLatency),
			memory.WithSeed(func() []*entity.Item { return seed.Workspace(time.Now()) }),
		)
		return &RemoteStore{Driver: config.StoreDriverMemory, Repo: repo, Close: noop}, nil

	case config.StoreDriverPostgres:
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pgstore.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		repo := pgstore.NewWorkspaceRepository(unitofwork.NewRepositoryFactory(db))
		closeFn := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return &RemoteStore{Driver: config.StoreDriverPostgres, Repo: repo, Close: closeFn}, nil

	case config.StoreDriverRedis:
		repo, err := redisstore.NewWorkspaceRepository(cfg.Store.RedisURL, cfg.Store.RedisKey)
		if err != nil {
			return nil, err
		}
		return &RemoteStore{Driver: config.StoreDriverRedis, Repo: repo, Close: repo.Close}, nil

	case config.StoreDriverSQLite:
		repo, err := sqlitestore.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &RemoteStore{Driver: config.StoreDriverSQLite, Repo: repo, Close: repo.Close}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
