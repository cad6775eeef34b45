package app

import (
	"context"
	"sync"
	"time"

	"mandamentos/internal/errors"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// loader owns one remotely fetched value. Failed fetches leave the previous
// value in place and record the error; concurrent refreshes share a single
// request.
type loader[T any] struct {
	name   string
	fetch  func(ctx context.Context) (T, error)
	logger *log.Logger

	group singleflight.Group

	mu          sync.RWMutex
	value       T
	loaded      bool
	loading     bool
	err         error
	updatedAt   time.Time
	subscribers map[int]func(T)
	nextSub     int
}

func newLoader[T any](name string, fetch func(ctx context.Context) (T, error), logger *log.Logger) *loader[T] {
	return &loader[T]{
		name:        name,
		fetch:       fetch,
		logger:      logger,
		subscribers: make(map[int]func(T)),
	}
}

// ensure fetches only when no value has been loaded yet
func (l *loader[T]) ensure(ctx context.Context) error {
	l.mu.RLock()
	loaded := l.loaded
	l.mu.RUnlock()
	if loaded {
		return nil
	}
	return l.refresh(ctx)
}

// refresh always fetches. The fetch runs on a context detached from the
// caller so an abandoned request never cancels a shared fetch.
func (l *loader[T]) refresh(ctx context.Context) error {
	ch := l.group.DoChan(l.name, func() (any, error) {
		return nil, l.run(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Shared {
			l.logger.Debug("joined in-flight fetch")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *loader[T]) run(ctx context.Context) error {
	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()

	startTime := time.Now()
	value, err := l.fetch(ctx)

	l.mu.Lock()
	l.loading = false
	if err != nil {
		l.err = err
		l.mu.Unlock()
		l.logger.Warn("fetch failed",
			"code", errors.GetCode(err),
			"err", err,
			"elapsed", time.Since(startTime).Round(time.Millisecond))
		return err
	}
	l.value = value
	l.loaded = true
	l.err = nil
	l.updatedAt = time.Now()
	subs := make([]func(T), 0, len(l.subscribers))
	for _, fn := range l.subscribers {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
	return nil
}

func (l *loader[T]) get() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value, l.loaded
}

func (l *loader[T]) isLoading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

func (l *loader[T]) lastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

func (l *loader[T]) lastUpdate() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.updatedAt
}

// subscribe registers fn for every successful fetch and returns the
// function that removes it
func (l *loader[T]) subscribe(fn func(T)) func() {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subscribers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subscribers, id)
		l.mu.Unlock()
	}
}
