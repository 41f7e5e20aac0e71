package state

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/value"
)

const (
	// InitAction is reduced against a nil state when a store is created.
	InitAction = "@@init"
	// ResetAction is recorded as the last action after Reset.
	ResetAction = "@@reset"
)

// Snapshot represents the latest data available to subscribers.
type Snapshot struct {
	State               any
	Version             int // bumped whenever State changes identity
	LastAction          actions.Action
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed dispatches
}

// IsFailing returns true when several dispatches in a row have failed.
func (s Snapshot) IsFailing() bool {
	return s.ConsecutiveFailures >= 2
}

// Observer sees every successful dispatch in order.
type Observer func(a actions.Action, prev, next any)

// Option configures a Store.
type Option func(*Store)

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store serializes dispatches through a reducer and shares the resulting
// state with subscribers.
type Store struct {
	dispatchMu sync.Mutex // held for the whole reduce; one reducer at a time

	mu        sync.RWMutex
	reduce    actions.Reducer
	snapshot  Snapshot
	subs      map[int]func()
	nextSubID int

	observers []Observer
	logger    *slog.Logger
}

// New creates a store whose initial state is reduce(nil, @@init).
func New(reduce actions.Reducer, opts ...Option) (*Store, error) {
	s := &Store{
		reduce: reduce,
		subs:   make(map[int]func()),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	boot := actions.Action{Type: InitAction}
	initial, err := reduce(nil, boot)
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	s.snapshot = Snapshot{
		State:       initial,
		LastAction:  boot,
		LastUpdated: time.Now(),
	}
	return s, nil
}

// Dispatch reduces a against the current state. When the reducer fails
// the previous state is kept but the error is recorded for visibility.
func (s *Store) Dispatch(a actions.Action) error {
	changed, err := s.apply(a)
	if err != nil {
		s.logger.Warn("state: dispatch failed", "type", a.Type, "error", err)
		s.notify()
		return fmt.Errorf("dispatch %s: %w", a.Type, err)
	}

	s.logger.Debug("state: dispatched", "type", a.Type, "changed", changed)
	s.notify()
	return nil
}

// apply runs the reducer and observers while holding dispatchMu. The lock
// is released even when a reducer or observer panics.
func (s *Store) apply(a actions.Action) (bool, error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	prev := s.State()
	next, err := s.reduce(prev, a)
	if err != nil {
		s.mu.Lock()
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		s.mu.Unlock()
		return false, err
	}

	changed := !value.Is(prev, next)
	s.mu.Lock()
	s.snapshot.State = next
	if changed {
		s.snapshot.Version++
	}
	s.snapshot.LastAction = a
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	s.mu.Unlock()

	for _, o := range s.observers {
		o(a, prev, next)
	}
	return changed, nil
}

// Reset replaces the state without running the reducer.
func (s *Store) Reset(state any) {
	func() {
		s.dispatchMu.Lock()
		defer s.dispatchMu.Unlock()
		s.mu.Lock()
		defer s.mu.Unlock()
		s.snapshot.State = state
		s.snapshot.Version++
		s.snapshot.LastAction = actions.Action{Type: ResetAction}
		s.snapshot.LastError = nil
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures = 0
	}()

	s.logger.Debug("state: reset")
	s.notify()
}

// State returns the current state.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.State
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Subscribe registers fn to run after every dispatch or reset. Listeners
// run on the dispatching goroutine after the store's locks are released.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}
