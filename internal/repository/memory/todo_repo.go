package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type todoRepository struct {
	mu    sync.RWMutex
	todos map[uuid.UUID]domain.Todo
}

func NewTodoRepository() *todoRepository {
	return &todoRepository{todos: make(map[uuid.UUID]domain.Todo)}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}
	r.todos[todo.ID] = *todo
	return nil
}

func (r *todoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	todo, ok := r.todos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &todo, nil
}

func (r *todoRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var todos []*domain.Todo
	for _, todo := range r.todos {
		if todo.UserID == ownerID {
			t := todo
			todos = append(todos, &t)
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
	return todos, nil
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[todo.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.todos[todo.ID] = *todo
	return nil
}

func (r *todoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.todos, id)
	return nil
}

func (r *todoRepository) GetDue(ctx context.Context, from, until time.Time, excludeNotified bool) ([]*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var due []*domain.Todo
	for _, todo := range r.todos {
		if todo.IsCompleted() || !todo.DueBetween(from, until) {
			continue
		}
		if excludeNotified && todo.IsNotified {
			continue
		}
		t := todo
		due = append(due, &t)
	}
	return due, nil
}
