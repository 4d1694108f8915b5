package directory

import "context"

// Result carries the outcome of one asynchronous query. Exactly one half is
// meaningful: when Err is non-nil, Value is the zero value.
type Result[T any] struct {
	Value T
	Err   error
}

// Unwrap returns the result as a value/error pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// OK reports whether the query succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Async runs query in its own goroutine and delivers a single Result on the
// returned channel, which is then closed.
func Async[T any](ctx context.Context, query func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		v, err := query(ctx)
		if err != nil {
			var zero T
			v = zero
		}
		out <- Result[T]{Value: v, Err: err}
	}()
	return out
}
