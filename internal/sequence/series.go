// Package sequence runs callback-style steps strictly in order.
package sequence

import (
	"context"
	"sync"
)

// Step performs one unit of work and reports its outcome through next.
type Step[T any] func(next func(result T, err error))

// Series runs steps one after another. Each step starts only after the
// previous one called next. The first failure skips the remaining steps and
// is passed to done along with the results gathered so far. A step calling
// next more than once is ignored after the first call.
func Series[T any](steps []Step[T], done func(results []T, err error)) {
	results := make([]T, 0, len(steps))

	var run func(i int)
	run = func(i int) {
		if i == len(steps) {
			done(results, nil)
			return
		}

		var once sync.Once
		steps[i](func(res T, err error) {
			once.Do(func() {
				results = append(results, res)
				if err != nil {
					done(results, err)
					return
				}
				run(i + 1)
			})
		})
	}
	run(0)
}

// Await runs a callback-style operation and blocks until it completes or
// ctx is done. The operation itself is not cancelled.
func Await(ctx context.Context, op func(done func(error))) error {
	result := make(chan error, 1)
	op(func(err error) { result <- err })

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
