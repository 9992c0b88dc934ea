package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type collaboratorRepository struct {
	db *gorm.DB
}

func NewCollaboratorRepository(db *gorm.DB) *collaboratorRepository {
	return &collaboratorRepository{db: db}
}

func (r *collaboratorRepository) Create(ctx context.Context, collaborator *domain.TaskCollaborator) error {
	return r.db.WithContext(ctx).Create(collaborator).Error
}

func (r *collaboratorRepository) GetByPair(ctx context.Context, taskID, userID uuid.UUID) (*domain.TaskCollaborator, error) {
	var collaborator domain.TaskCollaborator
	err := r.db.WithContext(ctx).
		First(&collaborator, "task_id = ? AND user_id = ?", taskID, userID).Error
	if err != nil {
		return nil, err
	}
	return &collaborator, nil
}

func (r *collaboratorRepository) GetByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskCollaborator, error) {
	var rows []*domain.TaskCollaborator
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Find(&rows).Error
	return rows, err
}

func (r *collaboratorRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskCollaborator, error) {
	var rows []*domain.TaskCollaborator
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *collaboratorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.TaskCollaborator{}, "id = ?", id).Error
}

func (r *collaboratorRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.TaskCollaborator{}, "task_id = ?", taskID).Error
}
