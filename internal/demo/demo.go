// Package demo defines the domains the drafty application runs: a
// counter, a todo list and a clock driven by the ticker.
package demo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/draft"
	"github.com/five82/drafty/internal/value"
)

// Domain keys.
const (
	Counter = "counter"
	Todos   = "todos"
	Clock   = "clock"
)

// Todo list filters.
const (
	FilterAll    = "all"
	FilterActive = "active"
	FilterDone   = "done"
)

var (
	// ErrPayload is returned when an action carries an unusable payload.
	ErrPayload = errors.New("demo: invalid payload")
	// ErrShape is returned when a domain state lacks a field its handlers
	// need, usually after a hand-written seed.
	ErrShape = errors.New("demo: unexpected state shape")
)

// Definitions returns fresh definitions of every demo domain.
func Definitions() actions.Definitions {
	return actions.Definitions{
		Counter: counterDomain(),
		Todos:   todosDomain(),
		Clock:   clockDomain(),
	}
}

// Selectors are the named expressions the UI shows next to the state.
func Selectors() map[string]string {
	return map[string]string{
		"total":     "counter.value",
		"remaining": "len(filter(todos.items, !.done))",
		"visible":   `todos.filter == "all" ? len(todos.items) : len(filter(todos.items, todos.filter == "done" ? .done : !.done))`,
		"ticks":     "clock.ticks",
	}
}

func intPayload(payload any, fallback int64) (int64, error) {
	if payload == nil {
		return fallback, nil
	}
	n, ok := value.Int(payload)
	if !ok {
		return 0, fmt.Errorf("%w: want an integer, got %T", ErrPayload, payload)
	}
	return n, nil
}

func getInt(d *draft.Draft, key string) int64 {
	n, _ := value.Int(d.Get(key))
	return n
}

func counterDomain() actions.Domain {
	return actions.Domain{
		DefaultState: value.ObjectOf("value", int64(0), "step", int64(1)),
		Actions: map[string]actions.Handler{
			"increment": func(d *draft.Draft, payload any) error {
				step, err := intPayload(payload, getInt(d, "step"))
				if err != nil {
					return err
				}
				d.Set("value", getInt(d, "value")+step)
				return nil
			},
			"decrement": func(d *draft.Draft, payload any) error {
				step, err := intPayload(payload, getInt(d, "step"))
				if err != nil {
					return err
				}
				d.Set("value", getInt(d, "value")-step)
				return nil
			},
			"setStep": func(d *draft.Draft, payload any) error {
				step, err := intPayload(payload, 1)
				if err != nil {
					return err
				}
				if step <= 0 {
					return fmt.Errorf("%w: step must be positive, got %d", ErrPayload, step)
				}
				d.Set("step", step)
				return nil
			},
			"reset": func(d *draft.Draft, _ any) error {
				d.Set("value", int64(0))
				return nil
			},
		},
		AsyncActions: map[string]actions.AsyncAction{
			// incrementLater waits for args[0] (a duration or duration
			// string) and then increments once.
			"incrementLater": func(ctx actions.AsyncContext, args ...any) error {
				delay := time.Second
				if len(args) > 0 {
					switch v := args[0].(type) {
					case time.Duration:
						delay = v
					case string:
						d, err := time.ParseDuration(v)
						if err != nil {
							return fmt.Errorf("%w: %v", ErrPayload, err)
						}
						delay = d
					}
				}
				<-time.After(delay)
				return ctx.Actions["increment"]()
			},
		},
	}
}

func todosDomain() actions.Domain {
	return actions.Domain{
		DefaultState: value.ObjectOf(
			"items", value.NewArray(),
			"nextID", int64(1),
			"filter", FilterAll,
		),
		Actions: map[string]actions.Handler{
			"add": func(d *draft.Draft, payload any) error {
				title, _ := payload.(string)
				title = strings.TrimSpace(title)
				if title == "" {
					return fmt.Errorf("%w: todo title must be a non-empty string", ErrPayload)
				}
				items, err := todoItems(d)
				if err != nil {
					return err
				}
				id := getInt(d, "nextID")
				items.Push(value.ObjectOf("id", id, "title", title, "done", false))
				d.Set("nextID", id+1)
				return nil
			},
			"toggle": func(d *draft.Draft, payload any) error {
				items, err := todoItems(d)
				if err != nil {
					return err
				}
				i, err := findTodo(items, payload)
				if err != nil {
					return err
				}
				item := items.ChildAt(i)
				done, _ := item.Get("done").(bool)
				item.Set("done", !done)
				return nil
			},
			"remove": func(d *draft.Draft, payload any) error {
				items, err := todoItems(d)
				if err != nil {
					return err
				}
				i, err := findTodo(items, payload)
				if err != nil {
					return err
				}
				items.RemoveAt(i)
				return nil
			},
			"clearCompleted": func(d *draft.Draft, _ any) error {
				items, err := todoItems(d)
				if err != nil {
					return err
				}
				for i := items.Len() - 1; i >= 0; i-- {
					item := items.ChildAt(i)
					if item == nil {
						continue
					}
					if done, _ := item.Get("done").(bool); done {
						items.RemoveAt(i)
					}
				}
				return nil
			},
			"setFilter": func(d *draft.Draft, payload any) error {
				f, _ := payload.(string)
				switch f {
				case FilterAll, FilterActive, FilterDone:
					d.Set("filter", f)
					return nil
				}
				return fmt.Errorf("%w: unknown filter %v", ErrPayload, payload)
			},
		},
		AsyncActions: map[string]actions.AsyncAction{
			// addMany adds every title not already on the list.
			"addMany": func(ctx actions.AsyncContext, args ...any) error {
				seen := map[string]bool{}
				if st, ok := ctx.GetState().(*value.Object); ok {
					if items, ok := st.Value("items").(*value.Array); ok {
						for _, it := range items.Items() {
							if o, ok := it.(*value.Object); ok {
								title, _ := o.Value("title").(string)
								seen[title] = true
							}
						}
					}
				}
				for _, arg := range args {
					title, _ := arg.(string)
					if seen[title] {
						continue
					}
					seen[title] = true
					if err := ctx.Actions["add"](title); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func todoItems(d *draft.Draft) (*draft.Draft, error) {
	items := d.Child("items")
	if items == nil || !items.IsArray() {
		return nil, fmt.Errorf("%w: todos.items is not a list", ErrShape)
	}
	return items, nil
}

func findTodo(items *draft.Draft, payload any) (int, error) {
	id, ok := value.Int(payload)
	if !ok {
		return 0, fmt.Errorf("%w: want a todo id, got %T", ErrPayload, payload)
	}
	for i := 0; i < items.Len(); i++ {
		item := items.ChildAt(i)
		if item == nil {
			continue
		}
		if n, ok := value.Int(item.Get("id")); ok && n == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no todo with id %d", ErrPayload, id)
}

func clockDomain() actions.Domain {
	return actions.Domain{
		DefaultState: value.ObjectOf("ticks", int64(0), "last", ""),
		Actions: map[string]actions.Handler{
			"tick": func(d *draft.Draft, payload any) error {
				d.Set("ticks", getInt(d, "ticks")+1)
				if at, ok := payload.(string); ok {
					d.Set("last", at)
				}
				return nil
			},
		},
	}
}
