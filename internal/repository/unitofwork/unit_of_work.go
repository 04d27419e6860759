package unitofwork

import (
	"context"

	"github.com/likhit-sai/CogniFlow/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WorkspaceItemRepository() contract.WorkspaceItemRepository
}
