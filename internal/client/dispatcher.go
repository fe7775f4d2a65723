package client

import (
	"context"
	"errors"

	"github.com/you/neuraread/internal/client/store"
	"github.com/you/neuraread/internal/logging"
)

// Dispatcher runs remote actions and commits their results to a store
type Dispatcher struct {
	api   *API
	store *store.Store
	log   logging.Logger
}

func NewDispatcher(api *API, st *store.Store, log logging.Logger) *Dispatcher {
	return &Dispatcher{api: api, store: st, log: log.With("component", "dispatcher")}
}

// Store returns the store the dispatcher commits to
func (d *Dispatcher) Store() *store.Store { return d.store }

// Result is what an action's call produced
type Result[T any] struct {
	Value T
	Envelope
}

// Action describes one remote call
type Action[T any] struct {
	ID store.ActionID
	// Call performs the request
	Call func(ctx context.Context) (Result[T], error)
	// Commit maps a successful result onto store actions
	Commit func(T) []store.Action
	// Quiet suppresses the success notification; failures always notify
	Quiet bool

	SuccessFallback string
	FailureFallback string
}

// Run moves a through pending to success or failure
func Run[T any](ctx context.Context, d *Dispatcher, a Action[T]) (T, error) {
	d.store.Dispatch(store.RequestStarted{ID: a.ID})

	res, err := a.Call(ctx)
	if err != nil {
		d.store.Dispatch(store.RequestFailed{ID: a.ID})
		severity, message := failureNotice(err, a.FailureFallback)
		d.store.Notify(severity, message)
		d.log.Warn(ctx, "action failed", "action", string(a.ID), "error", err)
		var zero T
		return zero, err
	}

	committed := []store.Action{store.RequestSucceeded{ID: a.ID}}
	if a.Commit != nil {
		committed = append(committed, a.Commit(res.Value)...)
	}
	d.store.Dispatch(committed...)

	if !a.Quiet {
		d.store.Notify(orDefault(res.Status, store.SeveritySuccess), orDefault(res.Message, a.SuccessFallback))
	}
	return res.Value, nil
}

func failureNotice(err error, fallback string) (string, string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return orDefault(apiErr.Severity, store.SeverityError), orDefault(apiErr.Message, fallback)
	}
	return store.SeverityError, fallback
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
