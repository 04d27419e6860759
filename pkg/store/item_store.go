package store

import (
	"sort"
	"sync"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/pkg/tree"
)

type ChangeType string

const (
	ChangeLoaded   ChangeType = "loaded"
	ChangeCreated  ChangeType = "created"
	ChangeUpdated  ChangeType = "updated"
	ChangeDeleted  ChangeType = "deleted"
	ChangeReplaced ChangeType = "replaced"
	ChangeActive   ChangeType = "active"
	ChangeReset    ChangeType = "reset"
)

// Change describes one state transition of the store.
type Change struct {
	Type     ChangeType
	ItemIds  []string
	ActiveId *string
	Reason   string
	At       time.Time
}

// Persistable reports whether the transition altered the collection and should reach the remote store.
// Loads, resets and selection changes do not.
func (c Change) Persistable() bool {
	switch c.Type {
	case ChangeCreated, ChangeUpdated, ChangeDeleted, ChangeReplaced:
		return true
	}
	return false
}

type CreateOptions struct {
	// SetActive selects the new item. Nil means true.
	SetActive  *bool
	Properties map[string]any
	Content    *string
}

type DeleteResult struct {
	Removed  []string
	ActiveId *string
}

type Option func(*ItemStore)

func WithClock(now func() time.Time) Option {
	return func(s *ItemStore) {
		s.now = now
	}
}

func WithIDGenerator(gen func(kind entity.ItemKind) string) Option {
	return func(s *ItemStore) {
		s.newId = gen
	}
}

// ItemStore is the in-memory authoritative workspace collection and its only mutation surface.
// Every mutation installs a fresh slice, items already published are never modified in place.
type ItemStore struct {
	mu       sync.RWMutex
	items    []*entity.Item
	activeId *string
	loaded   bool

	now   func() time.Time
	newId func(kind entity.ItemKind) string

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

func New(opts ...Option) *ItemStore {
	s := &ItemStore{
		items: make([]*entity.Item, 0),
		now:   time.Now,
		newId: NewItemID,
		subs:  make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ItemStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Reset drops all items and the selection.
func (s *ItemStore) Reset() {
	s.mu.Lock()
	s.items = make([]*entity.Item, 0)
	s.activeId = nil
	s.loaded = false
	s.mu.Unlock()

	s.emit(Change{Type: ChangeReset, At: s.timestamp()})
}

// Load installs a fetched collection and selects the initial item.
func (s *ItemStore) Load(items []*entity.Item) {
	next := entity.CloneItems(items)
	active := tree.InitialActive(next)

	s.mu.Lock()
	s.items = next
	s.activeId = active
	s.loaded = true
	s.mu.Unlock()

	s.emit(Change{Type: ChangeLoaded, ItemIds: itemIds(next), ActiveId: copyId(active), At: s.timestamp()})
}

func (s *ItemStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *ItemStore) Create(name string, kind entity.ItemKind, parentId *string, opts CreateOptions) (string, error) {
	if !kind.Valid() {
		return "", ErrInvalidKind
	}

	now := s.timestamp()
	it := &entity.Item{
		Id:        s.newId(kind),
		Name:      name,
		Kind:      kind,
		ParentId:  copyId(parentId),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyKindDefaults(it, opts, s.newId)
	it = it.Clone()

	s.mu.Lock()
	if parentId != nil && s.indexOf(*parentId) < 0 {
		s.mu.Unlock()
		return "", NotFoundError{Kind: "parent", ID: *parentId}
	}
	next := make([]*entity.Item, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.items = append(next, it)
	if opts.SetActive == nil || *opts.SetActive {
		s.activeId = entity.StringPtr(it.Id)
	}
	active := copyId(s.activeId)
	s.mu.Unlock()

	s.emit(Change{Type: ChangeCreated, ItemIds: []string{it.Id}, ActiveId: active, At: now})
	return it.Id, nil
}

// Update merges the patch into the item and advances its updatedAt.
func (s *ItemStore) Update(id string, patch entity.ItemPatch) error {
	now := s.timestamp()

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return NotFoundError{Kind: "item", ID: id}
	}
	if patch.Parent != nil && patch.Parent.Id != nil {
		newParent := *patch.Parent.Id
		if newParent != id && s.indexOf(newParent) < 0 {
			s.mu.Unlock()
			return NotFoundError{Kind: "parent", ID: newParent}
		}
		if tree.WouldCycle(s.items, id, patch.Parent.Id) {
			s.mu.Unlock()
			return ErrCycle
		}
	}

	updated := s.items[idx].Clone()
	applyPatch(updated, patch)
	updated.UpdatedAt = now

	next := make([]*entity.Item, len(s.items))
	copy(next, s.items)
	next[idx] = updated
	s.items = next
	active := copyId(s.activeId)
	s.mu.Unlock()

	s.emit(Change{Type: ChangeUpdated, ItemIds: []string{id}, ActiveId: active, At: now})
	return nil
}

// Delete removes the item and all of its descendants, then fixes up the selection.
func (s *ItemStore) Delete(id string) (*DeleteResult, error) {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return nil, NotFoundError{Kind: "item", ID: id}
	}
	before := s.items
	removed := tree.CollectCascadeIndexed(before, id)
	after := tree.Remaining(before, removed)
	active := tree.NextActive(before, after, removed, s.activeId)
	s.items = after
	s.activeId = active
	s.mu.Unlock()

	ids := make([]string, 0, len(removed))
	for _, it := range before {
		if _, gone := removed[it.Id]; gone {
			ids = append(ids, it.Id)
		}
	}

	s.emit(Change{Type: ChangeDeleted, ItemIds: ids, ActiveId: copyId(active), At: s.timestamp()})
	return &DeleteResult{Removed: ids, ActiveId: copyId(active)}, nil
}

// Replace swaps the whole collection in one transition. The selection is kept when the
// active item survived, otherwise the initial selection rule applies.
func (s *ItemStore) Replace(items []*entity.Item, reason string) {
	next := entity.CloneItems(items)

	s.mu.Lock()
	active := s.activeId
	if active == nil || tree.IndexById(next)[*active] == nil {
		active = tree.InitialActive(next)
	}
	s.items = next
	s.activeId = active
	s.mu.Unlock()

	s.emit(Change{Type: ChangeReplaced, ItemIds: itemIds(next), ActiveId: copyId(active), Reason: reason, At: s.timestamp()})
}

func (s *ItemStore) Get(id string) (*entity.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return s.items[idx].Clone(), true
}

// List returns a deep copy of every item in collection order.
func (s *ItemStore) List() []*entity.Item {
	s.mu.RLock()
	items := s.items
	s.mu.RUnlock()
	return entity.CloneItems(items)
}

// Snapshot is the full collection handed to the persistence layer.
func (s *ItemStore) Snapshot() []*entity.Item {
	return s.List()
}

func (s *ItemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ChildrenOf lists direct children of parentId, or the roots when parentId is nil.
// Items whose parent no longer exists are listed with the roots.
func (s *ItemStore) ChildrenOf(parentId *string) []*entity.Item {
	s.mu.RLock()
	items := s.items
	s.mu.RUnlock()

	out := make([]*entity.Item, 0)
	if parentId != nil {
		for _, it := range items {
			if it.HasParent(*parentId) {
				out = append(out, it.Clone())
			}
		}
		return out
	}

	byId := tree.IndexById(items)
	for _, it := range items {
		if it.ParentId == nil {
			out = append(out, it.Clone())
			continue
		}
		if _, ok := byId[*it.ParentId]; !ok {
			out = append(out, it.Clone())
		}
	}
	return out
}

func (s *ItemStore) ActiveID() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyId(s.activeId)
}

// SetActive changes the selection. A nil id clears it.
func (s *ItemStore) SetActive(id *string) error {
	s.mu.Lock()
	if id != nil && s.indexOf(*id) < 0 {
		s.mu.Unlock()
		return NotFoundError{Kind: "item", ID: *id}
	}
	s.activeId = copyId(id)
	s.mu.Unlock()

	s.emit(Change{Type: ChangeActive, ActiveId: copyId(id), At: s.timestamp()})
	return nil
}

// Subscribe registers fn for every change. Notifications run synchronously after the
// mutation, outside the store lock, so fn may read from the store.
func (s *ItemStore) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *ItemStore) emit(c Change) {
	s.subMu.Lock()
	keys := make([]int, 0, len(s.subs))
	for k := range s.subs {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fns := make([]func(Change), 0, len(keys))
	for _, k := range keys {
		fns = append(fns, s.subs[k])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// indexOf must be called with mu held.
func (s *ItemStore) indexOf(id string) int {
	for i, it := range s.items {
		if it.Id == id {
			return i
		}
	}
	return -1
}

func applyPatch(it *entity.Item, p entity.ItemPatch) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Content != nil {
		it.Content = entity.StringPtr(*p.Content)
	}
	if p.Icon != nil {
		it.Icon = entity.StringPtr(*p.Icon)
	}
	if p.CoverImage != nil {
		it.CoverImage = entity.StringPtr(*p.CoverImage)
	}
	if p.PaperStyle != nil {
		ps := *p.PaperStyle
		it.PaperStyle = &ps
	}
	if p.Slides != nil {
		it.Slides = p.Slides
	}
	if p.Theme != nil {
		th := *p.Theme
		it.Theme = &th
	}
	if p.Schema != nil {
		it.Schema = p.Schema
	}
	if p.Views != nil {
		it.Views = p.Views
	}
	if p.ActiveViewId != nil {
		it.ActiveViewId = entity.StringPtr(*p.ActiveViewId)
	}
	if p.Properties != nil {
		it.Properties = p.Properties
	}
	if p.Parent != nil {
		it.ParentId = copyId(p.Parent.Id)
	}
	// Detach slices and maps coming from the caller.
	*it = *it.Clone()
}

func itemIds(items []*entity.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Id
	}
	return out
}

func copyId(id *string) *string {
	if id == nil {
		return nil
	}
	return entity.StringPtr(*id)
}
