package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type collaboratorRepository struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]domain.TaskCollaborator
}

func NewCollaboratorRepository() *collaboratorRepository {
	return &collaboratorRepository{rows: make(map[uuid.UUID]domain.TaskCollaborator)}
}

func (r *collaboratorRepository) Create(ctx context.Context, collaborator *domain.TaskCollaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if collaborator.ID == uuid.Nil {
		collaborator.ID = uuid.New()
	}
	r.rows[collaborator.ID] = *collaborator
	return nil
}

func (r *collaboratorRepository) GetByPair(ctx context.Context, taskID, userID uuid.UUID) (*domain.TaskCollaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.rows {
		if row.TaskID == taskID && row.UserID == userID {
			c := row
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *collaboratorRepository) GetByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskCollaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []*domain.TaskCollaborator
	for _, row := range r.rows {
		if row.TaskID == taskID {
			c := row
			rows = append(rows, &c)
		}
	}
	return rows, nil
}

func (r *collaboratorRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskCollaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []*domain.TaskCollaborator
	for _, row := range r.rows {
		if row.UserID == userID {
			c := row
			rows = append(rows, &c)
		}
	}
	return rows, nil
}

func (r *collaboratorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *collaboratorRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.TaskID == taskID {
			delete(r.rows, id)
		}
	}
	return nil
}
