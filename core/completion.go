package core

import (
	"context"
	"fmt"
	"sync"
)

type Outcome struct {
	Value any
	Err   error
}

// Completion is the one-shot handle a caller waits on. The first Resolve
// wins; later calls are ignored so an operation can never complete twice.
type Completion struct {
	once sync.Once
	done chan struct{}
	out  Outcome
}

func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

func (c *Completion) Resolve(value any, err error) bool {
	if c == nil {
		return false
	}
	resolved := false
	c.once.Do(func() {
		c.out = Outcome{Value: value, Err: err}
		close(c.done)
		resolved = true
	})
	return resolved
}

func (c *Completion) Done() <-chan struct{} {
	return c.done
}

func (c *Completion) Resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the completion resolves or ctx ends. Abandoned
// completions never resolve, so callers must bound ctx.
func (c *Completion) Wait(ctx context.Context) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-c.done:
		return c.out.Value, c.out.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Await waits and asserts the resolved value type.
func Await[T any](ctx context.Context, c *Completion) (T, error) {
	var zero T
	value, err := c.Wait(ctx)
	if err != nil {
		return zero, err
	}
	if value == nil {
		return zero, nil
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("core: unexpected result type %T", value)
	}
	return typed, nil
}
