package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type todoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *todoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *todoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).First(&todo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Todo, error) {
	var todos []*domain.Todo
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&todos).Error
	return todos, err
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

func (r *todoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Todo{}, "id = ?", id).Error
}

func (r *todoRepository) GetDue(ctx context.Context, from, until time.Time, excludeNotified bool) ([]*domain.Todo, error) {
	q := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL").
		Where("completed_at IS NULL").
		Where("expires_at >= ? AND expires_at <= ?", from, until)
	if excludeNotified {
		q = q.Where("is_notified = ?", false)
	}

	var todos []*domain.Todo
	err := q.Find(&todos).Error
	return todos, err
}
