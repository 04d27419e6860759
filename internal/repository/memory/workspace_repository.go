package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

const workspaceKey = "workspace"

var ErrUnavailable = errors.New("remote store unavailable")

// WorkspaceRepository is an in-process stand-in for a cloud store. It hands out and keeps
// deep copies, optionally waits before answering and can be told to fail.
type WorkspaceRepository struct {
	cache   *cache.Cache
	latency time.Duration
	seed    func() []*entity.Item

	mu        sync.Mutex
	failWith  error
	saveCount int
}

var _ contract.WorkspaceRepository = &WorkspaceRepository{}

type WorkspaceOption func(*WorkspaceRepository)

func WithLatency(d time.Duration) WorkspaceOption {
	return func(r *WorkspaceRepository) {
		r.latency = d
	}
}

// WithSeed sets the collection returned by the first fetch of an empty store.
func WithSeed(seed func() []*entity.Item) WorkspaceOption {
	return func(r *WorkspaceRepository) {
		r.seed = seed
	}
}

func NewWorkspaceRepository(opts ...WorkspaceOption) *WorkspaceRepository {
	r := &WorkspaceRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *WorkspaceRepository) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *WorkspaceRepository) FetchAll(ctx context.Context) ([]*entity.Item, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}

	if x, found := r.cache.Get(workspaceKey); found {
		return entity.CloneItems(x.([]*entity.Item)), nil
	}
	items := make([]*entity.Item, 0)
	if r.seed != nil {
		items = r.seed()
	}
	r.cache.Set(workspaceKey, entity.CloneItems(items), cache.NoExpiration)
	return entity.CloneItems(items), nil
}

func (r *WorkspaceRepository) ReplaceAll(ctx context.Context, items []*entity.Item) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.cache.Set(workspaceKey, entity.CloneItems(items), cache.NoExpiration)
	r.saveCount++
	return nil
}

// SetFailure makes every call fail with err until it is called again with nil.
func (r *WorkspaceRepository) SetFailure(err error) {
	r.mu.Lock()
	r.failWith = err
	r.mu.Unlock()
}

func (r *WorkspaceRepository) SaveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveCount
}

// Reset forgets the stored collection; the next fetch starts from the seed again.
func (r *WorkspaceRepository) Reset() {
	r.mu.Lock()
	r.cache.Flush()
	r.failWith = nil
	r.saveCount = 0
	r.mu.Unlock()
}
