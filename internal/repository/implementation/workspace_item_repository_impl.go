package implementation

import (
	"context"
	"fmt"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/mapper"
	"github.com/likhit-sai/CogniFlow/internal/model"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"
	"github.com/likhit-sai/CogniFlow/internal/repository/specification"

	"gorm.io/gorm"
)

const insertBatchSize = 200

type WorkspaceItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WorkspaceItemMapper
}

func NewWorkspaceItemRepository(db *gorm.DB) contract.WorkspaceItemRepository {
	return &WorkspaceItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewWorkspaceItemMapper(),
	}
}

func (r *WorkspaceItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// CreateBatch inserts items keeping their slice index as position.
func (r *WorkspaceItemRepositoryImpl) CreateBatch(ctx context.Context, items []*entity.Item) error {
	if len(items) == 0 {
		return nil
	}
	rows, err := r.mapper.ToModels(items)
	if err != nil {
		return fmt.Errorf("map items: %w", err)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, insertBatchSize).Error
}

func (r *WorkspaceItemRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.WorkspaceItem{}).Error
}

func (r *WorkspaceItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Item, error) {
	var rows []*model.WorkspaceItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows)
}
