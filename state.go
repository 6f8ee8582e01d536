package hxtodo

import (
	"context"
	"sync"

	"github.com/pthm/hxtodo/lib/api"
)

// ChangeFunc is called after every assignment to a State.
type ChangeFunc func(ctx context.Context, todos []api.Todo)

// State holds the ordered todo list shown on the page and notifies a single
// subscriber whenever the list is replaced.
//
// The list is only ever replaced as a whole; callers build a new slice
// instead of mutating the one returned by Todos.
//
// Assignments are notified in the order they happen: an assignment waits
// until the subscriber has returned for the previous one, so the last
// notification always carries the current list. The subscriber may call
// Todos but must not assign.
type State struct {
	// notify is held from assignment until the subscriber returns.
	notify   sync.Mutex
	mu       sync.Mutex
	todos    []api.Todo
	onChange ChangeFunc
}

// NewState creates an empty State.
func NewState() *State {
	return &State{todos: []api.Todo{}}
}

// Todos returns the current list. The slice is shared; do not modify it.
func (s *State) Todos() []api.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todos
}

// Set replaces the list and synchronously calls the subscriber, if any,
// exactly once.
func (s *State) Set(ctx context.Context, todos []api.Todo) {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	s.todos = todos
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(ctx, todos)
	}
}

// Update computes the next list from the current one and assigns it like
// Set. fn must return a new slice.
func (s *State) Update(ctx context.Context, fn func(current []api.Todo) []api.Todo) {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	next := fn(s.todos)
	s.todos = next
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(ctx, next)
	}
}

// Subscribe registers fn as the change callback, replacing any previous one.
func (s *State) Subscribe(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// prepend returns a new list with t in front of todos.
func prepend(t api.Todo, todos []api.Todo) []api.Todo {
	next := make([]api.Todo, 0, len(todos)+1)
	next = append(next, t)
	return append(next, todos...)
}

// without returns a new list with every record matching id removed.
func without(id int, todos []api.Todo) []api.Todo {
	next := make([]api.Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			next = append(next, t)
		}
	}
	return next
}

// replaced returns a new list where records with t's id are replaced by t.
func replaced(t api.Todo, todos []api.Todo) []api.Todo {
	next := make([]api.Todo, len(todos))
	for i, cur := range todos {
		if cur.ID == t.ID {
			next[i] = t
		} else {
			next[i] = cur
		}
	}
	return next
}

// editing returns a new list where the record with id has its editing flag set.
func editing(id int, todos []api.Todo) []api.Todo {
	next := make([]api.Todo, len(todos))
	for i, cur := range todos {
		if cur.ID == id {
			cur.Editing = true
		}
		next[i] = cur
	}
	return next
}

// reversed returns a reversed copy of todos.
func reversed(todos []api.Todo) []api.Todo {
	next := make([]api.Todo, len(todos))
	for i, t := range todos {
		next[len(todos)-1-i] = t
	}
	return next
}
