package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/five82/drafty/internal/actions"
)

// ErrPatchMismatch is returned by Verify when applying an entry's patch to
// its previous state does not reproduce its next state.
var ErrPatchMismatch = errors.New("history: patch does not reproduce the next state")

// Entry records one state transition.
type Entry struct {
	Seq    int
	Action actions.Action
	Prev   any
	Next   any
	// Patch is the RFC 7386 merge patch turning Prev into Next.
	Patch []byte
	At    time.Time
}

// Changed reports whether the transition replaced the state.
func (e Entry) Changed() bool {
	return string(e.Patch) != "{}"
}

// Recorder keeps the most recent transitions of a store.
type Recorder struct {
	mu      sync.RWMutex
	limit   int
	seq     int
	entries []Entry
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the recorder's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRecorder keeps at most limit entries; zero keeps every entry.
func NewRecorder(limit int, opts ...Option) *Recorder {
	r := &Recorder{limit: limit, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe records a transition. Its signature matches state.Observer.
func (r *Recorder) Observe(a actions.Action, prev, next any) {
	patch, err := MergePatch(prev, next)
	if err != nil {
		r.logger.Warn("history: merge patch failed", "type", a.Type, "error", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.entries = append(r.entries, Entry{
		Seq:    r.seq,
		Action: a,
		Prev:   prev,
		Next:   next,
		Patch:  patch,
		At:     r.now(),
	})
	if r.limit > 0 && len(r.entries) > r.limit {
		drop := len(r.entries) - r.limit
		r.entries = append(r.entries[:0:0], r.entries[drop:]...)
	}
}

// Entries returns a copy of the recorded entries, oldest first.
func (r *Recorder) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Entry(nil), r.entries...)
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Latest returns the newest entry.
func (r *Recorder) Latest() (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Undo forgets the newest entry and returns the state before it.
func (r *Recorder) Undo() (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return nil, false
	}
	last := r.entries[len(r.entries)-1]
	r.entries = r.entries[:len(r.entries)-1]
	return last.Prev, true
}

// MergePatch returns the merge patch from prev to next.
func MergePatch(prev, next any) ([]byte, error) {
	from, err := json.Marshal(prev)
	if err != nil {
		return nil, fmt.Errorf("marshal previous state: %w", err)
	}
	to, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("marshal next state: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(from, to)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	return patch, nil
}

// Verify applies e.Patch to e.Prev and checks the result against e.Next.
// Merge patches cannot express explicit nulls, so states holding nil values
// may fail verification.
func Verify(e Entry) error {
	from, err := json.Marshal(e.Prev)
	if err != nil {
		return fmt.Errorf("marshal previous state: %w", err)
	}
	to, err := json.Marshal(e.Next)
	if err != nil {
		return fmt.Errorf("marshal next state: %w", err)
	}
	got, err := jsonpatch.MergePatch(from, e.Patch)
	if err != nil {
		return fmt.Errorf("apply merge patch: %w", err)
	}
	if !jsonpatch.Equal(got, to) {
		return fmt.Errorf("entry %d (%s): %w", e.Seq, e.Action.Type, ErrPatchMismatch)
	}
	return nil
}
