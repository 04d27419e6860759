// Package pgstore persists the workspace in PostgreSQL through GORM.
package pgstore

import (
	"context"
	"fmt"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/model"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"
	"github.com/likhit-sai/CogniFlow/internal/repository/specification"
	"github.com/likhit-sai/CogniFlow/internal/repository/unitofwork"

	"gorm.io/gorm"
)

type WorkspaceRepository struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ contract.WorkspaceRepository = &WorkspaceRepository{}

func NewWorkspaceRepository(uowFactory unitofwork.RepositoryFactory) *WorkspaceRepository {
	return &WorkspaceRepository{uowFactory: uowFactory}
}

// Migrate creates or updates the workspace tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.WorkspaceItem{})
}

func (r *WorkspaceRepository) FetchAll(ctx context.Context) ([]*entity.Item, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.WorkspaceItemRepository().FindAll(ctx, specification.InWriteOrder{})
	if err != nil {
		return nil, fmt.Errorf("fetch workspace: %w", err)
	}
	return items, nil
}

// ReplaceAll overwrites the stored collection in a single transaction.
func (r *WorkspaceRepository) ReplaceAll(ctx context.Context, items []*entity.Item) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.WorkspaceItemRepository()
	if err := repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear workspace: %w", err)
	}
	if err := repo.CreateBatch(ctx, items); err != nil {
		return fmt.Errorf("write workspace: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit workspace: %w", err)
	}
	return nil
}
