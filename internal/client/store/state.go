// Package store mirrors server state for the admin client. State changes
// only through Reduce; the Store serializes dispatches.
package store

import "github.com/you/neuraread/domain"

// Severity values used by notifications
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
)

type AuthState struct {
	IsLoggedIn bool
	User       *domain.User
	AdminData  *domain.User
}

// Totals keeps the dashboard counters; nil means not loaded yet
type Totals struct {
	Users      *int64
	Contacts   *int64
	Images     *int64
	Books      *int64
	Categories *int64
	Average    *float64
}

// Ordered is a map keyed by id that remembers insertion order
type Ordered[T any] struct {
	ByID  map[uint]T
	Order []uint
}

// List returns the values in insertion order
func (o Ordered[T]) List() []T {
	out := make([]T, 0, len(o.Order))
	for _, id := range o.Order {
		out = append(out, o.ByID[id])
	}
	return out
}

func (o Ordered[T]) Len() int { return len(o.Order) }

// Get returns the value stored under id
func (o Ordered[T]) Get(id uint) (T, bool) {
	v, ok := o.ByID[id]
	return v, ok
}

func orderedFrom[T any](items []T, id func(T) uint) Ordered[T] {
	o := Ordered[T]{ByID: make(map[uint]T, len(items)), Order: make([]uint, 0, len(items))}
	for _, it := range items {
		o = o.with(id(it), it)
	}
	return o
}

// with returns a copy holding v; an existing id keeps its position
func (o Ordered[T]) with(id uint, v T) Ordered[T] {
	next := Ordered[T]{ByID: make(map[uint]T, len(o.ByID)+1), Order: o.Order}
	for k, x := range o.ByID {
		next.ByID[k] = x
	}
	if _, ok := o.ByID[id]; !ok {
		next.Order = append(append([]uint(nil), o.Order...), id)
	}
	next.ByID[id] = v
	return next
}

func (o Ordered[T]) without(id uint) Ordered[T] {
	if _, ok := o.ByID[id]; !ok {
		return o
	}
	next := Ordered[T]{ByID: make(map[uint]T, len(o.ByID)), Order: make([]uint, 0, len(o.Order))}
	for k, x := range o.ByID {
		if k != id {
			next.ByID[k] = x
		}
	}
	for _, k := range o.Order {
		if k != id {
			next.Order = append(next.Order, k)
		}
	}
	return next
}

type DataState struct {
	Totals         Totals
	Users          Ordered[domain.User]
	ContactsByUser map[uint][]domain.Contact
	ImagesByUser   map[uint][]domain.Photo
	Categories     Ordered[domain.Category]
	Books          Ordered[domain.Book]
}

// RequestState is the pending/error flag pair of one action
type RequestState struct {
	Loading bool
	Error   bool
}

// Notification is the single transient message slot
type Notification struct {
	ID       uint64
	Open     bool
	Severity string
	Message  string
}

type State struct {
	Auth         AuthState
	Data         DataState
	Requests     map[ActionID]RequestState
	Notification Notification
}

// Initial returns the empty mirror
func Initial() State {
	return State{
		Data: DataState{
			ContactsByUser: map[uint][]domain.Contact{},
			ImagesByUser:   map[uint][]domain.Photo{},
		},
		Requests: map[ActionID]RequestState{},
	}
}

// AnyLoading reports whether some action is in flight
func (s State) AnyLoading() bool {
	for _, r := range s.Requests {
		if r.Loading {
			return true
		}
	}
	return false
}

// Request returns the state of one action; idle actions have no entry
func (s State) Request(id ActionID) RequestState {
	return s.Requests[id]
}
