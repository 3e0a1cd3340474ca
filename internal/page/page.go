// Package page models a dashboard page: load the collection on mount, submit
// a mutation, re-fetch the whole collection afterwards.
package page

import (
	"context"

	"oficina-backend/internal/apperr"

	"go.uber.org/zap"
)

type State string

const (
	StateLoading    State = "loading"
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// ListFunc fetches the page's collection.
type ListFunc[T any] func(ctx context.Context) ([]T, error)

// MutateFunc performs one store mutation.
type MutateFunc func(ctx context.Context) error

// MutateAndReload runs mutate and, only if it succeeded, returns the
// refreshed collection.
func MutateAndReload[T any](ctx context.Context, mutate MutateFunc, reload ListFunc[T]) ([]T, error) {
	if err := mutate(ctx); err != nil {
		return nil, err
	}
	return reload(ctx)
}

type Page[T any] struct {
	name    string
	list    ListFunc[T]
	log     *zap.SugaredLogger
	state   State
	records []T
	err     error
}

// New returns a page in the loading state; call Load to fetch.
func New[T any](name string, list ListFunc[T], log *zap.SugaredLogger) *Page[T] {
	return &Page[T]{name: name, list: list, log: log, state: StateLoading, records: []T{}}
}

// Load fetches the collection. On failure the page shows an empty list and
// keeps the error; nothing is retried.
func (p *Page[T]) Load(ctx context.Context) {
	p.state = StateLoading
	records, err := p.list(ctx)
	p.state = StateIdle
	if err != nil {
		p.log.Warnw("page load failed", "page", p.name, "error", err)
		p.records = []T{}
		p.err = err
		return
	}
	p.records = records
	p.err = nil
}

// Submit runs mutate followed by a full reload. On failure the previous
// records stay in place and the error is returned for the caller to surface.
func (p *Page[T]) Submit(ctx context.Context, mutate MutateFunc) error {
	p.state = StateSubmitting
	records, err := MutateAndReload(ctx, mutate, p.list)
	p.state = StateIdle
	if err != nil {
		p.log.Warnw("page submit failed", "page", p.name, "error", err)
		p.err = err
		return err
	}
	p.records = records
	p.err = nil
	return nil
}

func (p *Page[T]) State() State { return p.state }

func (p *Page[T]) Records() []T { return p.records }

func (p *Page[T]) Err() error { return p.err }

// View is the JSON shape returned to the dashboard.
type View[T any] struct {
	State   State  `json:"state"`
	Records []T    `json:"records"`
	Error   string `json:"error,omitempty"`
}

func (p *Page[T]) View() View[T] {
	v := View[T]{State: p.state, Records: p.records}
	if p.err != nil {
		v.Error = apperr.PublicMessage(p.err)
	}
	return v
}
