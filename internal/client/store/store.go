package store

import (
	"sync"
	"time"
)

// NotificationTTL is how long a notification stays open
const NotificationTTL = 4 * time.Second

// Scheduler runs f after d. Tests swap in a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Store owns the client state. Dispatch is safe for concurrent use;
// subscribers run after each commit, outside the lock.
type Store struct {
	mu        sync.Mutex
	state     State
	nextNote  uint64
	nextSub   int
	subs      map[int]func(State)
	scheduler Scheduler
}

type Option func(*Store)

// WithScheduler replaces the timer used for notification dismissal
func WithScheduler(s Scheduler) Option {
	return func(st *Store) { st.scheduler = s }
}

func New(opts ...Option) *Store {
	s := &Store{state: Initial(), subs: map[int]func(State){}, scheduler: realScheduler{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current snapshot. Reducers never mutate, so the maps
// inside are safe to read.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch commits actions in order and then notifies subscribers once
func (s *Store) Dispatch(actions ...Action) {
	s.mu.Lock()
	snapshot, subs := s.commitLocked(actions)
	s.mu.Unlock()
	publish(snapshot, subs)
}

func (s *Store) commitLocked(actions []Action) (State, []func(State)) {
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return s.state, subs
}

func publish(snapshot State, subs []func(State)) {
	for _, fn := range subs {
		fn(snapshot)
	}
}

// Subscribe registers fn and returns a function removing it
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Notify shows a notification, replacing any open one, and schedules its
// dismissal after NotificationTTL.
func (s *Store) Notify(severity, message string) uint64 {
	s.mu.Lock()
	s.nextNote++
	id := s.nextNote
	snapshot, subs := s.commitLocked([]Action{NotificationShown{ID: id, Severity: severity, Message: message}})
	s.mu.Unlock()
	publish(snapshot, subs)

	s.scheduler.AfterFunc(NotificationTTL, func() {
		s.Dispatch(NotificationDismissed{ID: id})
	})
	return id
}

// AnyLoading reports whether any action is pending
func (s *Store) AnyLoading() bool {
	return s.State().AnyLoading()
}
