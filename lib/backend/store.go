// Package backend is a small REST backend for todos, compatible with the
// json-server routes the client expects. It exists for local development
// and for exercising the client end to end in tests.
package backend

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/pthm/hxtodo/lib/api"
)

// ErrNotFound is returned when a todo id does not exist.
var ErrNotFound = errors.New("backend: todo not found")

// Store persists todo records.
type Store interface {
	List(ctx context.Context) ([]api.Todo, error)
	Create(ctx context.Context, t api.NewTodo) (api.Todo, error)
	Update(ctx context.Context, id int, p api.Patch) (api.Todo, error)
	Delete(ctx context.Context, id int) error
	Close() error
}

// MemoryStore is an in-memory Store. Ids start at 1 and are never reused.
type MemoryStore struct {
	mu     sync.RWMutex
	todos  map[int]api.Todo
	nextID int
}

// NewMemoryStore creates an empty store, optionally seeded with records
// created in the given order.
func NewMemoryStore(seed ...api.NewTodo) *MemoryStore {
	s := &MemoryStore{
		todos:  make(map[int]api.Todo),
		nextID: 1,
	}
	for _, t := range seed {
		s.Create(context.Background(), t)
	}
	return s
}

// List returns all todos ordered by id.
func (s *MemoryStore) List(ctx context.Context) ([]api.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]api.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Create stores a new todo under the next id.
func (s *MemoryStore) Create(ctx context.Context, t api.NewTodo) (api.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo := api.Todo{
		ID:      s.nextID,
		Content: t.Content,
		Status:  t.Status,
	}
	s.todos[todo.ID] = todo
	s.nextID++
	return todo, nil
}

// Update merges the non-nil patch fields into a todo.
func (s *MemoryStore) Update(ctx context.Context, id int, p api.Patch) (api.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return api.Todo{}, ErrNotFound
	}
	todo = applyPatch(todo, p)
	s.todos[id] = todo
	return todo, nil
}

// Delete removes a todo.
func (s *MemoryStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func applyPatch(t api.Todo, p api.Patch) api.Todo {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}
