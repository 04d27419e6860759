package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/dto"
	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/pkg/logger"
	"github.com/likhit-sai/CogniFlow/internal/repository/contract"
	"github.com/likhit-sai/CogniFlow/internal/repository/memory"
	"github.com/likhit-sai/CogniFlow/pkg/ai/assist"
	"github.com/likhit-sai/CogniFlow/pkg/ai/planner"
	"github.com/likhit-sai/CogniFlow/pkg/events"
	"github.com/likhit-sai/CogniFlow/pkg/persistence"
	"github.com/likhit-sai/CogniFlow/pkg/reorg"
	"github.com/likhit-sai/CogniFlow/pkg/store"
	"github.com/likhit-sai/CogniFlow/pkg/tree"

	"github.com/google/uuid"
)

const reasonOrganize = "organize"

type IWorkspaceService interface {
	Load(ctx context.Context) error
	Loaded() bool

	List(ctx context.Context) ([]*entity.Item, error)
	Tree(ctx context.Context) ([]*tree.Node, error)
	Search(ctx context.Context, query string) (*dto.SearchResponse, error)
	Show(ctx context.Context, id string) (*dto.ShowItemResponse, error)
	Children(ctx context.Context, parentId *string) ([]*entity.Item, error)
	Create(ctx context.Context, req *dto.CreateItemRequest) (*dto.CreateItemResponse, error)
	Update(ctx context.Context, req *dto.UpdateItemRequest) (*entity.Item, error)
	Delete(ctx context.Context, id string) (*dto.DeleteItemResponse, error)
	Active(ctx context.Context) (*dto.ActiveResponse, error)
	SetActive(ctx context.Context, req *dto.SetActiveRequest) (*dto.ActiveResponse, error)

	Status(ctx context.Context) *dto.SaveStatusResponse
	RetrySave(ctx context.Context) (*dto.SaveStatusResponse, error)

	Organize(ctx context.Context) (*dto.OrganizationPlanResponse, error)
	ApplyPlan(ctx context.Context, planId string) (*dto.ApplyPlanResponse, error)
	DiscardPlan(ctx context.Context, planId string) error

	Assist(ctx context.Context, req *dto.AssistRequest) (*dto.AssistResponse, error)
	GeneratePresentation(ctx context.Context, req *dto.GeneratePresentationRequest) (*dto.GeneratePresentationResponse, error)
	Validate(ctx context.Context) (*dto.ValidateResponse, error)

	Shutdown(ctx context.Context) error
}

type WorkspaceServiceOpts struct {
	Scheduler persistence.SchedulerOpts
	PlanTTL   time.Duration
	Now       func() time.Time
}

type workspaceService struct {
	repo      contract.WorkspaceRepository
	store     *store.ItemStore
	scheduler *persistence.Scheduler
	plans     *memory.PlanRepository
	planner   planner.Planner
	assistant *assist.Assistant
	applier   *reorg.Applier
	publisher IPublisherService
	logger    logger.ILogger
	now       func() time.Time
	planTTL   time.Duration

	// mu serializes mutations so that plan application sees no concurrent edits
	// between its snapshot and the replace.
	mu sync.Mutex
}

func NewWorkspaceService(
	repo contract.WorkspaceRepository,
	itemStore *store.ItemStore,
	plans *memory.PlanRepository,
	planner planner.Planner,
	assistant *assist.Assistant,
	publisher IPublisherService,
	logger logger.ILogger,
	opts WorkspaceServiceOpts,
) IWorkspaceService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	planTTL := opts.PlanTTL
	if planTTL <= 0 {
		planTTL = memory.DefaultPlanTTL
	}

	schedOpts := opts.Scheduler
	if schedOpts.Now == nil {
		schedOpts.Now = now
	}

	s := &workspaceService{
		repo:      repo,
		store:     itemStore,
		plans:     plans,
		planner:   planner,
		assistant: assistant,
		applier:   reorg.NewApplier(reorg.Options{Now: now}),
		publisher: publisher,
		logger:    logger,
		now:       now,
		planTTL:   planTTL,
	}
	s.scheduler = persistence.NewScheduler(persistence.SaverFunc(repo.ReplaceAll), itemStore.Snapshot, schedOpts)

	itemStore.Subscribe(s.onChange)
	s.scheduler.OnStatusChange(s.onStatus)
	return s
}

func (s *workspaceService) onChange(c store.Change) {
	if c.Persistable() {
		s.scheduler.Notify()
	}
	s.publish(events.ItemsChanged(string(c.Type), c.ItemIds, c.ActiveId, c.At))
}

func (s *workspaceService) onStatus(st entity.SaveStatus) {
	if st.State == entity.SaveStateError {
		s.logger.Error("WORKSPACE", "Save failed", map[string]interface{}{"error": st.Error})
	}
	s.publish(events.SaveStatusChanged(st, s.now()))
}

func (s *workspaceService) publish(e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.Background(), e); err != nil {
		s.logger.Warn("WORKSPACE", "Failed to publish event", map[string]interface{}{
			"type":  e.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *workspaceService) ensureLoaded() error {
	if !s.store.Loaded() {
		return store.ErrNotLoaded
	}
	return nil
}

// Load fetches the collection from the remote store. A failure here is fatal for the caller.
func (s *workspaceService) Load(ctx context.Context) error {
	start := time.Now()
	items, err := s.repo.FetchAll(ctx)
	if err != nil {
		s.logger.Error("WORKSPACE", "Failed to load workspace", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("load workspace: %w", err)
	}

	s.store.Load(items)
	s.logger.Info("WORKSPACE", "Workspace loaded", map[string]interface{}{
		"items":       len(items),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (s *workspaceService) Loaded() bool {
	return s.store.Loaded()
}

func (s *workspaceService) List(ctx context.Context) ([]*entity.Item, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.store.List(), nil
}

func (s *workspaceService) Search(ctx context.Context, query string) (*dto.SearchResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	visible, matched := tree.Search(s.store.List(), query)
	return &dto.SearchResponse{Query: query, Items: visible, MatchedIds: matched}, nil
}

func (s *workspaceService) Tree(ctx context.Context) ([]*tree.Node, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return tree.Build(s.store.List()), nil
}

func (s *workspaceService) Show(ctx context.Context, id string) (*dto.ShowItemResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	items := s.store.List()
	byId := tree.IndexById(items)
	it, ok := byId[id]
	if !ok {
		return nil, store.NotFoundError{Kind: "item", ID: id}
	}

	ancestors := tree.Ancestors(items, id)
	breadcrumb := make([]dto.BreadcrumbItem, 0, len(ancestors))
	for i := len(ancestors) - 1; i >= 0; i-- {
		a := ancestors[i]
		breadcrumb = append(breadcrumb, dto.BreadcrumbItem{Id: a.Id, Name: a.Name, Type: a.Kind})
	}
	return &dto.ShowItemResponse{Item: it, Breadcrumb: breadcrumb}, nil
}

func (s *workspaceService) Children(ctx context.Context, parentId *string) ([]*entity.Item, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	if parentId != nil {
		if _, ok := s.store.Get(*parentId); !ok {
			return nil, store.NotFoundError{Kind: "item", ID: *parentId}
		}
	}
	return s.store.ChildrenOf(parentId), nil
}

func (s *workspaceService) Create(ctx context.Context, req *dto.CreateItemRequest) (*dto.CreateItemResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.Create(req.Name, entity.ItemKind(req.Type), req.ParentId, store.CreateOptions{
		SetActive:  req.SetActive,
		Properties: req.Properties,
		Content:    req.Content,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CreateItemResponse{Id: id, ActiveId: s.store.ActiveID()}, nil
}

func (s *workspaceService) Update(ctx context.Context, req *dto.UpdateItemRequest) (*entity.Item, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Update(req.Id, req.Patch()); err != nil {
		return nil, err
	}
	it, _ := s.store.Get(req.Id)
	return it, nil
}

func (s *workspaceService) Delete(ctx context.Context, id string) (*dto.DeleteItemResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.store.Delete(id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("WORKSPACE", "Items deleted", map[string]interface{}{"root": id, "removed": len(res.Removed)})
	return &dto.DeleteItemResponse{RemovedIds: res.Removed, ActiveId: res.ActiveId}, nil
}

func (s *workspaceService) Active(ctx context.Context) (*dto.ActiveResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return &dto.ActiveResponse{ActiveId: s.store.ActiveID()}, nil
}

func (s *workspaceService) SetActive(ctx context.Context, req *dto.SetActiveRequest) (*dto.ActiveResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetActive(req.Id); err != nil {
		return nil, err
	}
	return &dto.ActiveResponse{ActiveId: s.store.ActiveID()}, nil
}

func (s *workspaceService) Status(ctx context.Context) *dto.SaveStatusResponse {
	return toStatusResponse(s.scheduler.Status(), s.scheduler.Pending())
}

// RetrySave saves immediately. The returned status reflects the attempt even when it failed.
func (s *workspaceService) RetrySave(ctx context.Context) (*dto.SaveStatusResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	err := s.scheduler.Retry(ctx)
	res := toStatusResponse(s.scheduler.Status(), s.scheduler.Pending())
	if err != nil {
		s.logger.Warn("WORKSPACE", "Manual save failed", map[string]interface{}{"error": err.Error()})
	} else {
		s.logger.Info("WORKSPACE", "Manual save succeeded", nil)
	}
	return res, nil
}

func toStatusResponse(st entity.SaveStatus, pending bool) *dto.SaveStatusResponse {
	return &dto.SaveStatusResponse{
		State:         st.State,
		Error:         st.Error,
		Pending:       pending,
		LastSavedAt:   st.LastSavedAt,
		LastAttemptAt: st.LastAttemptAt,
		Seq:           st.Seq,
	}
}

// Organize asks the planner for a restructuring and parks it until it is applied or
// discarded. Planner failures are reported in the response, never as an error.
func (s *workspaceService) Organize(ctx context.Context) (*dto.OrganizationPlanResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	items := s.store.List()

	actions, err := s.planner.Plan(ctx, planner.BuildView(items))
	if err != nil {
		s.logger.Warn("WORKSPACE", "Organization planning failed", map[string]interface{}{"error": err.Error()})
		return &dto.OrganizationPlanResponse{
			Actions:      []entity.OrganizationAction{},
			Descriptions: []string{},
			Error:        err.Error(),
		}, nil
	}

	res := &dto.OrganizationPlanResponse{
		Actions:      actions,
		Descriptions: reorg.Describe(items, actions),
	}
	if len(actions) == 0 {
		return res, nil
	}

	now := s.now().UTC()
	plan := &entity.OrganizationPlan{
		Id:           uuid.NewString(),
		Actions:      actions,
		Descriptions: res.Descriptions,
		CreatedAt:    now,
	}
	s.plans.Save(plan)

	expires := now.Add(s.planTTL)
	res.PlanId = plan.Id
	res.ExpiresAt = &expires

	s.logger.Info("WORKSPACE", "Organization plan created", map[string]interface{}{"plan_id": plan.Id, "actions": len(actions)})
	s.publish(events.PlanCreated(plan.Id, len(actions), now))
	return res, nil
}

// ApplyPlan runs a parked plan against the current collection. The plan is consumed even
// when it turns out to be invalid.
func (s *workspaceService) ApplyPlan(ctx context.Context, planId string) (*dto.ApplyPlanResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	plan, ok := s.plans.Take(planId)
	if !ok {
		return nil, store.NotFoundError{Kind: "plan", ID: planId}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.applier.Apply(s.store.Snapshot(), plan.Actions)
	if err != nil {
		return nil, fmt.Errorf("apply plan %s: %w", planId, err)
	}

	if len(result.Created) > 0 || len(result.Changed) > 0 {
		s.store.Replace(result.Items, reasonOrganize)
	}
	for _, w := range result.Warnings {
		s.logger.Warn("WORKSPACE", "Plan warning", map[string]interface{}{"plan_id": planId, "warning": w})
	}

	s.logger.Info("WORKSPACE", "Organization plan applied", map[string]interface{}{
		"plan_id": planId,
		"created": len(result.Created),
		"changed": len(result.Changed),
		"skipped": len(result.Skipped),
	})
	s.publish(events.PlanApplied(planId, len(result.Created), len(result.Changed), len(result.Skipped), s.now()))

	return &dto.ApplyPlanResponse{
		PlanId:   planId,
		Created:  nonNil(result.Created),
		Changed:  nonNil(result.Changed),
		Skipped:  append([]reorg.Skip{}, result.Skipped...),
		Warnings: nonNil(result.Warnings),
	}, nil
}

func (s *workspaceService) DiscardPlan(ctx context.Context, planId string) error {
	if !s.plans.Delete(planId) {
		return store.NotFoundError{Kind: "plan", ID: planId}
	}
	return nil
}

// Assist runs a text action over the given text, or the item's content when none is given.
// The item itself is never modified.
func (s *workspaceService) Assist(ctx context.Context, req *dto.AssistRequest) (*dto.AssistResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	it, ok := s.store.Get(req.ItemId)
	if !ok {
		return nil, store.NotFoundError{Kind: "item", ID: req.ItemId}
	}

	text := ""
	if req.Text != nil {
		text = *req.Text
	} else if it.Content != nil {
		text = *it.Content
	}
	if strings.TrimSpace(text) == "" {
		return nil, assist.ErrEmptyText
	}

	return &dto.AssistResponse{
		ItemId: it.Id,
		Action: req.Action,
		Result: s.assistant.Generate(ctx, req.Action, text),
	}, nil
}

// GeneratePresentation drafts slides for a topic. With an item id the slides replace
// those of that presentation.
func (s *workspaceService) GeneratePresentation(ctx context.Context, req *dto.GeneratePresentationRequest) (*dto.GeneratePresentationResponse, error) {
	if req.ItemId != nil {
		if err := s.ensureLoaded(); err != nil {
			return nil, err
		}
		it, ok := s.store.Get(*req.ItemId)
		if !ok {
			return nil, store.NotFoundError{Kind: "item", ID: *req.ItemId}
		}
		if it.Kind != entity.ItemKindPresentation {
			return nil, fmt.Errorf("%w: %s is not a presentation", store.ErrInvalidKind, it.Id)
		}
	}

	slides := s.assistant.GeneratePresentation(ctx, req.Topic)
	failed := len(slides) == 1 && slides[0].Id == assist.ErrorSlideId

	if req.ItemId != nil && !failed {
		s.mu.Lock()
		err := s.store.Update(*req.ItemId, entity.ItemPatch{Slides: slides})
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
	}
	return &dto.GeneratePresentationResponse{Slides: slides}, nil
}

func (s *workspaceService) Validate(ctx context.Context) (*dto.ValidateResponse, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	issues := tree.Validate(s.store.List())
	if issues == nil {
		issues = []tree.Issue{}
	}
	return &dto.ValidateResponse{Valid: len(issues) == 0, Issues: issues}, nil
}

// Shutdown writes any pending change and stops the scheduler. A workspace stuck in the
// error state gets one last attempt.
func (s *workspaceService) Shutdown(ctx context.Context) error {
	defer s.scheduler.Stop()

	if !s.store.Loaded() {
		return nil
	}
	if s.scheduler.Status().State == entity.SaveStateError {
		return s.scheduler.Retry(ctx)
	}
	return s.scheduler.Flush(ctx)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
