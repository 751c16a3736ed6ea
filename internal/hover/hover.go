// Package hover owns the single piece of mutable UI state: which
// measurement, if any, is under the pointer.
package hover

import (
	"sync"

	"github.com/RMahshie/lightspeed/pkg/models"
)

// State is the hover cell. A nil Hovered means no point is hovered.
type State struct {
	Hovered *models.Measurement
}

// IsHovered reports whether m is the hovered record, comparing every field.
func (s State) IsHovered(m models.Measurement) bool {
	return s.Hovered != nil && *s.Hovered == m
}

// Event is a pointer event over the plotted points.
type Event interface {
	Name() string
}

// Entered is dispatched when the pointer moves onto a point.
type Entered struct {
	Record models.Measurement
}

func (Entered) Name() string { return "enter" }

// Left is dispatched when the pointer leaves a point.
type Left struct{}

func (Left) Name() string { return "leave" }

// Reduce returns the state that follows e. It has no side effects.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case Entered:
		rec := ev.Record
		return State{Hovered: &rec}
	case Left:
		return State{}
	default:
		return s
	}
}

// Store serializes dispatch so every event is applied against the state
// left by the previous one.
type Store struct {
	mu       sync.Mutex
	state    State
	observer func(Event, State)
}

// NewStore returns a store with nothing hovered. observer, if non-nil, is
// called after each dispatch while the store lock is held.
func NewStore(observer func(Event, State)) *Store {
	return &Store{observer: observer}
}

// Dispatch applies e and returns the new state.
func (s *Store) Dispatch(e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, e)
	if s.observer != nil {
		s.observer(e, s.state)
	}
	return s.state
}

// DispatchIf calls decide with the current state and applies the event it
// returns, all under one lock. A nil event leaves the state unchanged.
// It reports whether an event was applied.
func (s *Store) DispatchIf(decide func(State) Event) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := decide(s.state)
	if e == nil {
		return s.state, false
	}
	s.state = Reduce(s.state, e)
	if s.observer != nil {
		s.observer(e, s.state)
	}
	return s.state, true
}

// Current returns the current state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
