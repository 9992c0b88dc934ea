package domain

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty" gorm:"index"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CompletedBy *uuid.UUID `json:"completedBy,omitempty" gorm:"type:uuid"`
	IsMuted     bool       `json:"isMuted"`
	IsNotified  bool       `json:"isNotified"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Todo) TableName() string {
	return "todos"
}

func (t *Todo) IsCompleted() bool {
	return t.CompletedAt != nil
}

// DueBetween reports whether the task is due inside [from, until],
// inclusive on both ends. Tasks without a due time are never due.
func (t *Todo) DueBetween(from, until time.Time) bool {
	if t.ExpiresAt == nil {
		return false
	}
	return !t.ExpiresAt.Before(from) && !t.ExpiresAt.After(until)
}

// TaskCollaborator grants a non-owner access to a task.
type TaskCollaborator struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TaskID uuid.UUID `json:"taskId" gorm:"type:uuid;index:idx_collab_pair,unique;not null"`
	UserID uuid.UUID `json:"userId" gorm:"type:uuid;index:idx_collab_pair,unique;index;not null"`
}

func (TaskCollaborator) TableName() string {
	return "task_collaborators"
}
