package sequence

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSeriesRunsInOrder(t *testing.T) {
	var order []int
	step := func(n int) Step[int] {
		return func(next func(int, error)) {
			order = append(order, n)
			next(n*10, nil)
		}
	}

	var gotResults []int
	var gotErr error
	called := 0
	Series([]Step[int]{step(1), step(2), step(3)}, func(results []int, err error) {
		called++
		gotResults, gotErr = results, err
	})

	if called != 1 {
		t.Fatalf("done called %d times, want 1", called)
	}
	if gotErr != nil {
		t.Fatalf("unexpected error: %v", gotErr)
	}
	if len(order) != 3 || order[0] != 1 || order[2] != 3 {
		t.Errorf("unexpected order: %v", order)
	}
	if len(gotResults) != 3 || gotResults[2] != 30 {
		t.Errorf("unexpected results: %v", gotResults)
	}
}

func TestSeriesShortCircuits(t *testing.T) {
	boom := errors.New("boom")
	ran := map[string]bool{}

	steps := []Step[string]{
		func(next func(string, error)) { ran["a"] = true; next("a", nil) },
		func(next func(string, error)) { ran["b"] = true; next("", boom) },
		func(next func(string, error)) { ran["c"] = true; next("c", nil) },
	}

	var gotErr error
	Series(steps, func(_ []string, err error) { gotErr = err })

	if !errors.Is(gotErr, boom) {
		t.Errorf("expected boom, got %v", gotErr)
	}
	if ran["c"] {
		t.Error("step after failure should not run")
	}
}

func TestSeriesWaitsForAsyncSteps(t *testing.T) {
	secondStarted := make(chan struct{}, 1)
	release := make(chan struct{})

	steps := []Step[int]{
		func(next func(int, error)) {
			go func() {
				<-release
				next(1, nil)
			}()
		},
		func(next func(int, error)) {
			secondStarted <- struct{}{}
			next(2, nil)
		},
	}

	done := make(chan []int, 1)
	Series(steps, func(results []int, _ error) { done <- results })

	select {
	case <-secondStarted:
		t.Fatal("second step started before first completed")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)

	select {
	case results := <-done:
		if len(results) != 2 {
			t.Errorf("expected 2 results, got %v", results)
		}
	case <-time.After(time.Second):
		t.Fatal("series did not complete")
	}
}

func TestSeriesIgnoresDoubleNext(t *testing.T) {
	calls := 0
	steps := []Step[int]{
		func(next func(int, error)) {
			next(1, nil)
			next(1, nil)
		},
	}
	Series(steps, func([]int, error) { calls++ })
	if calls != 1 {
		t.Errorf("done called %d times, want 1", calls)
	}
}

func TestSeriesEmpty(t *testing.T) {
	called := false
	Series[int](nil, func(results []int, err error) {
		called = true
		if err != nil || len(results) != 0 {
			t.Errorf("unexpected results=%v err=%v", results, err)
		}
	})
	if !called {
		t.Error("done not called for empty series")
	}
}

func TestAwait(t *testing.T) {
	boom := errors.New("boom")
	err := Await(context.Background(), func(done func(error)) {
		go done(boom)
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestAwaitContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Await(ctx, func(done func(error)) {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
