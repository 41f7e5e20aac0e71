package draft

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/drafty/internal/value"
)

// Strategy selects how drafts intercept reads and writes.
type Strategy int

const (
	// Reflective intercepts every access and never touches the base.
	Reflective Strategy = iota
	// Structural keeps a live copy per draft and detects shape changes
	// after the recipe returns.
	Structural
)

func (s Strategy) String() string {
	switch s {
	case Reflective:
		return "reflective"
	case Structural:
		return "structural"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reflective", "proxy":
		return Reflective, nil
	case "structural", "es5":
		return Structural, nil
	default:
		return Reflective, fmt.Errorf("unknown draft strategy %q", s)
	}
}

// Recipe mutates d or returns a replacement. d is the root *Draft for
// object and array bases and the base itself otherwise. A nil result means
// no replacement.
type Recipe func(d any) (any, error)

// Edit adapts a mutation that only touches the root draft.
func Edit(fn func(d *Draft) error) Recipe {
	if fn == nil {
		return nil
	}
	return func(d any) (any, error) {
		dr, ok := d.(*Draft)
		if !ok {
			return nil, ErrInvalidBase
		}
		return nil, fn(dr)
	}
}

// CurriedRecipe receives the draft of the first argument and the rest as
// given.
type CurriedRecipe func(d any, rest ...any) (any, error)

// Engine produces next states from a base and a recipe.
type Engine struct {
	strategy   Strategy
	autoFreeze bool
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy selects the draft strategy.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) { e.strategy = s }
}

// WithAutoFreeze controls whether produced containers are frozen.
func WithAutoFreeze(on bool) Option {
	return func(e *Engine) { e.autoFreeze = on }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an engine using the reflective strategy with auto-freeze on.
func New(opts ...Option) *Engine {
	e := &Engine{strategy: Reflective, autoFreeze: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy reports the engine's strategy.
func (e *Engine) Strategy() Strategy { return e.strategy }

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

var defaultEngine = New()

// Produce runs recipe against base on the default engine.
func Produce(base any, recipe Recipe) (any, error) {
	return defaultEngine.Produce(base, recipe)
}

// Curry returns a producer on the default engine that drafts its first
// argument.
func Curry(fn CurriedRecipe) func(args ...any) (any, error) {
	return defaultEngine.Curry(fn)
}

// scope holds the drafts of one producer invocation.
type scope struct {
	engine *Engine
	traps  traps
	states []*state
}

func (sc *scope) newDraft(parent *state, base any) *Draft {
	s := &state{scope: sc, parent: parent, base: base}
	if parent != nil {
		s.depth = parent.depth + 1
	}
	s.draft = &Draft{s: s}
	sc.traps.init(s)
	sc.states = append(sc.states, s)
	return s.draft
}

func (sc *scope) revoke() {
	for _, s := range sc.states {
		s.finished = true
	}
}

// Produce drafts base, hands the root draft to recipe and finalizes the
// result. An unmodified base is returned by reference.
func (e *Engine) Produce(base any, recipe Recipe) (result any, err error) {
	if recipe == nil {
		return nil, ErrNilRecipe
	}
	if value.IsPrimitive(base) {
		return recipe(base)
	}
	if !value.IsContainer(base) {
		return nil, fmt.Errorf("%w: %T", ErrInvalidBase, base)
	}

	sc := &scope{engine: e}
	if e.strategy == Structural {
		sc.traps = structuralTraps{}
	} else {
		sc.traps = reflectiveTraps{}
	}
	defer sc.revoke()
	defer recoverDraftError(&result, &err)

	root := sc.newDraft(nil, base)
	returned, err := recipe(root)
	if err != nil {
		return nil, err
	}
	if e.strategy == Structural {
		for _, s := range sc.states {
			s.finalizing = true
		}
		detectChanges(sc.states)
	}

	if returned != nil && returned != any(root) {
		if root.s.modified {
			return nil, ErrReturnedAndModified
		}
		result = sc.finalizeValue(returned)
	} else {
		result = sc.finalize(root)
	}
	e.log().Debug("draft: produced",
		"strategy", e.strategy.String(),
		"drafts", len(sc.states),
		"modified", root.s.modified,
	)
	return result, nil
}

// Curry returns a producer that drafts its first argument and forwards the
// rest to fn.
func (e *Engine) Curry(fn CurriedRecipe) func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		if fn == nil {
			return nil, ErrNilRecipe
		}
		if len(args) == 0 {
			return nil, ErrArity
		}
		rest := args[1:]
		return e.Produce(args[0], func(d any) (any, error) {
			return fn(d, rest...)
		})
	}
}
