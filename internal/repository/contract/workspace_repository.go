package contract

import (
	"context"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/specification"
)

// WorkspaceRepository is the remote store of a whole workspace. Writes always replace the
// full collection and reads return it in the order it was written.
type WorkspaceRepository interface {
	FetchAll(ctx context.Context) ([]*entity.Item, error)
	ReplaceAll(ctx context.Context, items []*entity.Item) error
}

// WorkspaceItemRepository is row level access to persisted items, used inside a unit of work.
type WorkspaceItemRepository interface {
	CreateBatch(ctx context.Context, items []*entity.Item) error
	DeleteAll(ctx context.Context) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Item, error)
}
