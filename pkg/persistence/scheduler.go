package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
)

const (
	DefaultDebounce    = 1500 * time.Millisecond
	DefaultSaveTimeout = 10 * time.Second

	SaveErrorMessage = "Failed to save recent changes. Please check your connection."
)

// Saver writes the full collection to the remote store, overwriting what was there.
type Saver interface {
	Save(ctx context.Context, items []*entity.Item) error
}

type SaverFunc func(ctx context.Context, items []*entity.Item) error

func (f SaverFunc) Save(ctx context.Context, items []*entity.Item) error {
	return f(ctx, items)
}

type SchedulerOpts struct {
	Debounce    time.Duration
	SaveTimeout time.Duration
	Now         func() time.Time
}

// Scheduler decides when the collection is written back. Notifications are coalesced
// with a trailing debounce; a failed save stops automatic saving until Retry succeeds.
type Scheduler struct {
	saver    Saver
	snapshot func() []*entity.Item
	debounce time.Duration
	timeout  time.Duration
	now      func() time.Time

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	pending    bool
	stopped    bool
	status     entity.SaveStatus
	listeners  []func(entity.SaveStatus)

	// saveMu serializes writes so a retry never races a timer-driven save.
	saveMu sync.Mutex
}

func NewScheduler(saver Saver, snapshot func() []*entity.Item, opts SchedulerOpts) *Scheduler {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timeout := opts.SaveTimeout
	if timeout <= 0 {
		timeout = DefaultSaveTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		saver:    saver,
		snapshot: snapshot,
		debounce: debounce,
		timeout:  timeout,
		now:      now,
		status:   entity.SaveStatus{State: entity.SaveStateSaved},
	}
}

// Notify reports a mutation. It is ignored while the scheduler is in the error state.
func (s *Scheduler) Notify() {
	s.mu.Lock()
	if s.stopped || s.status.State == entity.SaveStateError {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.onTimer(gen) })
	var (
		st  entity.SaveStatus
		fns []func(entity.SaveStatus)
	)
	changed := s.setStateLocked(entity.SaveStateSaving, "")
	if changed {
		st, fns = s.announceLocked()
	}
	s.mu.Unlock()

	if changed {
		broadcast(fns, st)
	}
}

func (s *Scheduler) onTimer(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || !s.pending || s.stopped {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.timer = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_ = s.save(ctx, &gen)
}

// Retry saves the current collection immediately. A success re-enables automatic saving.
func (s *Scheduler) Retry(ctx context.Context) error {
	s.mu.Lock()
	s.cancelTimerLocked()
	s.pending = false
	s.setStateLocked(entity.SaveStateSaving, "")
	st, fns := s.announceLocked()
	s.mu.Unlock()
	broadcast(fns, st)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.save(ctx, nil)
}

// Flush writes a pending change right away instead of waiting for the debounce.
func (s *Scheduler) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.cancelTimerLocked()
	s.pending = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.save(ctx, nil)
}

// Stop cancels the pending timer. Later notifications are dropped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.cancelTimerLocked()
	s.mu.Unlock()
}

func (s *Scheduler) Status() entity.SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStatus(s.status)
}

// Pending reports whether a change is waiting for the debounce to elapse.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// OnStatusChange registers fn for every state transition.
func (s *Scheduler) OnStatusChange(fn func(entity.SaveStatus)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// save writes the current snapshot. timerGen is set for debounced saves: such a save
// is dropped if, while it waited for saveMu, the scheduler entered the error state or
// its timer was superseded.
func (s *Scheduler) save(ctx context.Context, timerGen *uint64) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if timerGen != nil {
		s.mu.Lock()
		skip := s.stopped || s.status.State == entity.SaveStateError || *timerGen != s.generation
		s.mu.Unlock()
		if skip {
			return nil
		}
	}

	items := s.snapshot()
	err := s.saver.Save(ctx, items)
	at := s.now().UTC()

	s.mu.Lock()
	s.status.LastAttemptAt = &at
	if err != nil {
		// No automatic saves until a retry succeeds.
		s.cancelTimerLocked()
		s.pending = false
		s.setStateLocked(entity.SaveStateError, SaveErrorMessage)
	} else {
		s.status.LastSavedAt = &at
		if s.pending {
			s.setStateLocked(entity.SaveStateSaving, "")
		} else {
			s.setStateLocked(entity.SaveStateSaved, "")
		}
	}
	st, fns := s.announceLocked()
	s.mu.Unlock()

	broadcast(fns, st)
	if err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

func (s *Scheduler) cancelTimerLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// announceLocked stamps the next sequence number on the status about to be broadcast.
func (s *Scheduler) announceLocked() (entity.SaveStatus, []func(entity.SaveStatus)) {
	s.status.Seq++
	return s.status, s.listeners
}

func (s *Scheduler) setStateLocked(state entity.SaveState, msg string) bool {
	changed := s.status.State != state || s.status.Error != msg
	s.status.State = state
	s.status.Error = msg
	return changed
}

func broadcast(fns []func(entity.SaveStatus), st entity.SaveStatus) {
	for _, fn := range fns {
		fn(copyStatus(st))
	}
}

func copyStatus(st entity.SaveStatus) entity.SaveStatus {
	out := st
	if st.LastSavedAt != nil {
		t := *st.LastSavedAt
		out.LastSavedAt = &t
	}
	if st.LastAttemptAt != nil {
		t := *st.LastAttemptAt
		out.LastAttemptAt = &t
	}
	return out
}
