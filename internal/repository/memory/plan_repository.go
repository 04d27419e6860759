package memory

import (
	"sync"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"

	"github.com/patrickmn/go-cache"
)

const DefaultPlanTTL = 30 * time.Minute

// PlanRepository keeps organization plans until they are applied, discarded or expire.
type PlanRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewPlanRepository(ttl time.Duration) *PlanRepository {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &PlanRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *PlanRepository) Save(plan *entity.OrganizationPlan) {
	r.cache.Set(plan.Id, plan, cache.DefaultExpiration)
}

func (r *PlanRepository) Get(planId string) (*entity.OrganizationPlan, bool) {
	if x, found := r.cache.Get(planId); found {
		return x.(*entity.OrganizationPlan), true
	}
	return nil, false
}

// Take returns the plan and removes it, so a plan is applied at most once.
func (r *PlanRepository) Take(planId string) (*entity.OrganizationPlan, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.Get(planId)
	if ok {
		r.cache.Delete(planId)
	}
	return plan, ok
}

func (r *PlanRepository) Delete(planId string) bool {
	_, ok := r.cache.Get(planId)
	r.cache.Delete(planId)
	return ok
}

func (r *PlanRepository) Count() int {
	return r.cache.ItemCount()
}
