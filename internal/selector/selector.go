// Package selector evaluates expr-lang expressions against store state.
//
// The state is converted to its native form (maps, slices and scalars) and
// used as the expression environment, so domain keys are top-level
// variables:
//
//	counter.value * counter.step
//	len(filter(todos.items, !.done))
//	getpath($env, "todos.filter")
package selector

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/value"
)

// Selector is a compiled expression.
type Selector struct {
	src     string
	program *vm.Program
}

// Compile compiles src.
func Compile(src string) (*Selector, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("compile selector: empty expression")
	}
	program, err := expr.Compile(src, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", src, err)
	}
	return &Selector{src: src, program: program}, nil
}

// MustCompile is Compile for selectors known at build time.
func MustCompile(src string) *Selector {
	s, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the expression source.
func (s *Selector) String() string { return s.src }

// Select evaluates the selector against state.
func (s *Selector) Select(state any) (any, error) {
	env, ok := value.ToNative(state).(map[string]any)
	if !ok {
		env = map[string]any{}
	}
	out, err := expr.Run(s.program, env)
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", s.src, err)
	}
	return out, nil
}

// Map compiles named expressions into a connect mapping that fills
// Props.Selected.
func Map(named map[string]string) (actions.MapStateWithActions, error) {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)

	compiled := make(map[string]*Selector, len(named))
	for _, n := range names {
		s, err := Compile(named[n])
		if err != nil {
			return nil, fmt.Errorf("selector %s: %w", n, err)
		}
		compiled[n] = s
	}
	return func(state any, _ actions.Tree) actions.Props {
		p := actions.Props{Selected: make(map[string]any, len(compiled))}
		for _, n := range names {
			v, err := compiled[n].Select(state)
			if err != nil {
				if p.Err == nil {
					p.Err = err
				}
				continue
			}
			p.Selected[n] = v
		}
		return p
	}, nil
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Function("getpath", func(params ...any) (any, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("getpath: want 2 arguments, got %d", len(params))
			}
			root, _ := params[0].(map[string]any)
			path, _ := params[1].(string)
			return getPath(root, path)
		}, new(func(map[string]any, string) any)),
	}
}

// getPath walks a dotted path ("todos.items.0.title") through a native
// tree. Missing keys yield nil.
func getPath(root map[string]any, path string) (any, error) {
	var cur any = root
	if path == "" {
		return cur, nil
	}
	for _, part := range strings.Split(path, ".") {
		switch c := cur.(type) {
		case map[string]any:
			cur = c[part]
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("getpath %q: %q is not an index", path, part)
			}
			if i < 0 || i >= len(c) {
				return nil, nil
			}
			cur = c[i]
		default:
			return nil, nil
		}
	}
	return cur, nil
}
