package actions

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/five82/drafty/internal/draft"
	"github.com/five82/drafty/internal/value"
)

// Separator joins a domain key and an action name into an action type.
const Separator = "__"

// ErrPrimitiveState is returned when a handler would run against a state
// that is not an object or array.
var ErrPrimitiveState = errors.New("actions: previous state is not an object or array")

// Action is the message dispatched to a store.
type Action struct {
	Type    string `json:"type" yaml:"type" toml:"type"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty" toml:"payload,omitempty"`
}

// Domain returns the domain key part of the action type.
func (a Action) Domain() string {
	domain, _, _ := strings.Cut(a.Type, Separator)
	return domain
}

// Name returns the action name part of the action type.
func (a Action) Name() string {
	_, name, ok := strings.Cut(a.Type, Separator)
	if !ok {
		return a.Type
	}
	return name
}

// Type builds the action type for name in domain.
func Type(domain, name string) string {
	return domain + Separator + name
}

// Handler mutates a draft of the domain state.
type Handler func(d *draft.Draft, payload any) error

// ActionMap maps prefixed action types to handlers.
type ActionMap map[string]Handler

// PrefixedActionMap keys every handler by "<prefix>__<name>".
func PrefixedActionMap(prefix string, handlers map[string]Handler) ActionMap {
	m := make(ActionMap, len(handlers))
	for name, h := range handlers {
		m[Type(prefix, name)] = h
	}
	return m
}

// Types lists the action types in m, sorted.
func (m ActionMap) Types() []string {
	types := make([]string, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Reducer computes the next state for an action.
type Reducer func(prev any, a Action) (any, error)

type options struct {
	engine *draft.Engine
	logger *slog.Logger
}

// Option configures reducers and bundles.
type Option func(*options)

// WithEngine sets the producer engine handlers run through.
func WithEngine(e *draft.Engine) Option {
	return func(o *options) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{engine: draft.New(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewReducer returns a reducer that runs the handler for an action's type
// against a draft of the previous state. A nil previous state yields
// defaultState as is; unknown types yield the previous state.
func NewReducer(m ActionMap, defaultState any, opts ...Option) Reducer {
	o := buildOptions(opts)
	return func(prev any, a Action) (any, error) {
		if prev == nil {
			return defaultState, nil
		}
		h, ok := m[a.Type]
		if !ok {
			return prev, nil
		}
		if value.IsPrimitive(prev) {
			return prev, fmt.Errorf("%s: %w", a.Type, ErrPrimitiveState)
		}
		next, err := o.engine.Produce(prev, draft.Edit(func(d *draft.Draft) error {
			return h(d, a.Payload)
		}))
		if err != nil {
			o.logger.Debug("actions: handler failed", "type", a.Type, "error", err)
			return prev, fmt.Errorf("%s: %w", a.Type, err)
		}
		return next, nil
	}
}

// Bound dispatches one action. The first argument, if any, is the payload.
type Bound func(args ...any) error

// BoundActions maps unprefixed action names to bound dispatchers.
type BoundActions map[string]Bound

// Names lists the action names, sorted.
func (b BoundActions) Names() []string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CreateActions binds every handler in m to dispatch under its unprefixed
// name.
func CreateActions(m ActionMap, dispatch func(Action) error) BoundActions {
	bound := make(BoundActions, len(m))
	for typ := range m {
		name := Action{Type: typ}.Name()
		bound[name] = func(args ...any) error {
			var payload any
			if len(args) > 0 {
				payload = args[0]
			}
			return dispatch(Action{Type: typ, Payload: payload})
		}
	}
	return bound
}
