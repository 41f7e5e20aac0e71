package draft

import (
	"errors"
	"fmt"
)

var (
	// ErrNilRecipe is returned when a producer is given no recipe.
	ErrNilRecipe = errors.New("draft: recipe is nil")

	// ErrArity is returned when a curried producer is called without a base.
	ErrArity = errors.New("draft: curried producer needs a base argument")

	// ErrInvalidBase is returned for bases that are neither primitives nor
	// objects or arrays.
	ErrInvalidBase = errors.New("draft: base must be a primitive, an object or an array")

	// ErrReturnedAndModified is returned when a recipe both modified its
	// draft and returned a different value.
	ErrReturnedAndModified = errors.New("draft: recipe returned a new value and modified its draft; do one or the other")

	// ErrFinalized is raised by any operation on a draft whose producer has
	// finished.
	ErrFinalized = errors.New("draft: draft used after its producer finished; was it passed to a goroutine or callback?")

	// ErrUnsupported is raised by mutations drafts cannot express.
	ErrUnsupported = errors.New("draft: operation not supported on drafts")

	// ErrInvalidKey is raised for keys an array cannot hold.
	ErrInvalidKey = errors.New("draft: invalid array key")
)

// Error describes a failed draft operation.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// recoverDraftError turns a *Error panic raised by a draft operation into
// a returned error. Other panics keep unwinding.
func recoverDraftError(result *any, err *error) {
	r := recover()
	if r == nil {
		return
	}
	de, ok := r.(*Error)
	if !ok {
		panic(r)
	}
	*result = nil
	*err = de
}
