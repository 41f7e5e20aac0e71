package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/draft"
	"github.com/five82/drafty/internal/value"
)

var errBoom = errors.New("boom")

func counterBundle() *actions.Bundle {
	return actions.Build(actions.Definitions{
		"counter": {
			Actions: map[string]actions.Handler{
				"increment": func(d *draft.Draft, _ any) error {
					n, _ := value.Int(d.Get("value"))
					d.Set("value", n+1)
					return nil
				},
				"fail": func(*draft.Draft, any) error { return errBoom },
			},
			DefaultState: value.ObjectOf("value", int64(0)),
		},
	})
}

func newStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := New(counterBundle().Reduce, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func counterValue(t *testing.T, state any) int64 {
	t.Helper()
	n, _ := value.Int(state.(*value.Object).Value("counter").(*value.Object).Value("value"))
	return n
}

func TestStore_DispatchAndSnapshot(t *testing.T) {
	s := newStore(t)
	if snap := s.Snapshot(); snap.LastAction.Type != InitAction || snap.Version != 0 {
		t.Fatalf("initial snapshot = %+v", snap)
	}

	before := time.Now()
	if err := s.Dispatch(actions.Action{Type: "counter__increment"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	snap := s.Snapshot()
	if got := counterValue(t, snap.State); got != 1 {
		t.Fatalf("counter = %d, want 1", got)
	}
	if snap.Version != 1 || snap.LastAction.Type != "counter__increment" {
		t.Fatalf("snapshot = %+v, want version 1 after increment", snap)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
}

func TestStore_UnknownActionKeepsVersion(t *testing.T) {
	s := newStore(t)
	prev := s.State()
	if err := s.Dispatch(actions.Action{Type: "nobody__home"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if s.State() != prev || s.Snapshot().Version != 0 {
		t.Fatalf("unknown action changed the state")
	}
}

func TestStore_DispatchErrorKeepsPreviousData(t *testing.T) {
	s := newStore(t)
	_ = s.Dispatch(actions.Action{Type: "counter__increment"})
	prev := s.Snapshot()

	err := s.Dispatch(actions.Action{Type: "counter__fail"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("Dispatch err = %v, want boom", err)
	}

	snap := s.Snapshot()
	if snap.State != prev.State || snap.Version != prev.Version {
		t.Fatalf("state changed on error")
	}
	if !errors.Is(snap.LastError, errBoom) {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	stored := s.snapshot.LastError
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(stored).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	s := newStore(t)

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsFailing() {
		t.Fatalf("fresh store failures = %d", snap.ConsecutiveFailures)
	}

	for i := 1; i <= 3; i++ {
		_ = s.Dispatch(actions.Action{Type: "counter__fail"})
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i)
		}
		if want := i >= 2; snap.IsFailing() != want {
			t.Fatalf("IsFailing() = %v, want %v with %d failures", snap.IsFailing(), want, i)
		}
	}

	// Success resets counter
	_ = s.Dispatch(actions.Action{Type: "counter__increment"})
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsFailing() || snap.LastError != nil {
		t.Fatalf("snapshot after success = %+v", snap)
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := newStore(t)
	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	_ = s.Dispatch(actions.Action{Type: "counter__increment"})
	_ = s.Dispatch(actions.Action{Type: "counter__fail"})
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}

	unsubscribe()
	unsubscribe()
	_ = s.Dispatch(actions.Action{Type: "counter__increment"})
	if calls != 2 {
		t.Fatalf("listener ran after unsubscribe")
	}
}

func TestStore_ObserverSeesTransitions(t *testing.T) {
	type transition struct {
		typ        string
		prev, next int64
	}
	var seen []transition
	s := newStore(t, WithObserver(func(a actions.Action, prev, next any) {
		seen = append(seen, transition{a.Type, counterValue(t, prev), counterValue(t, next)})
	}))

	_ = s.Dispatch(actions.Action{Type: "counter__increment"})
	_ = s.Dispatch(actions.Action{Type: "counter__fail"})
	_ = s.Dispatch(actions.Action{Type: "counter__increment"})

	want := []transition{{"counter__increment", 0, 1}, {"counter__increment", 1, 2}}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("observed %+v, want %+v", seen, want)
	}
}

func TestStore_Reset(t *testing.T) {
	s := newStore(t)
	initial := s.State()
	_ = s.Dispatch(actions.Action{Type: "counter__increment"})

	notified := false
	s.Subscribe(func() { notified = true })
	s.Reset(initial)

	snap := s.Snapshot()
	if snap.State != initial || snap.LastAction.Type != ResetAction || !notified {
		t.Fatalf("snapshot after reset = %+v (notified %v)", snap, notified)
	}
	if snap.Version != 2 {
		t.Fatalf("Version = %d, want 2", snap.Version)
	}
}

func TestStore_ConcurrentDispatchIsSerialized(t *testing.T) {
	s := newStore(t)
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Dispatch(actions.Action{Type: "counter__increment"})
		}()
	}
	wg.Wait()

	if got := counterValue(t, s.State()); got != n {
		t.Fatalf("counter = %d, want %d", got, n)
	}
}

func TestNew_InitError(t *testing.T) {
	_, err := New(func(any, actions.Action) (any, error) { return nil, errBoom })
	if !errors.Is(err, errBoom) {
		t.Fatalf("New err = %v, want boom", err)
	}
}

func TestStore_ObserverPanicReleasesLock(t *testing.T) {
	panicked := false
	s := newStore(t, WithObserver(func(a actions.Action, _, _ any) {
		if a.Type == "counter__increment" && !panicked {
			panicked = true
			panic("observer failed")
		}
	}))

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected observer panic")
			}
		}()
		_ = s.Dispatch(actions.Action{Type: "counter__increment"})
	}()

	done := make(chan error, 1)
	go func() { done <- s.Dispatch(actions.Action{Type: "counter__increment"}) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Dispatch after panic: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Dispatch blocked after observer panic")
	}
	if got := counterValue(t, s.State()); got != 2 {
		t.Fatalf("counter = %d, want 2", got)
	}
}
