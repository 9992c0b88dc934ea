package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
	"github.com/nizar-zouaoui/my-todos-personal/internal/ws"
	"gorm.io/gorm"
)

type TodoService struct {
	todoRepo       repository.TodoRepository
	collabRepo     repository.CollaboratorRepository
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
	notifications  *NotificationService
	hub            *ws.Hub
}

func NewTodoService(todoRepo repository.TodoRepository, collabRepo repository.CollaboratorRepository, friendshipRepo repository.FriendshipRepository, userRepo repository.UserRepository, notifications *NotificationService, hub *ws.Hub) *TodoService {
	return &TodoService{
		todoRepo:       todoRepo,
		collabRepo:     collabRepo,
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		notifications:  notifications,
		hub:            hub,
	}
}

// HasAccess reports whether the user may read or mutate the task: true
// for the owner and for any collaborator, false otherwise, including
// when the task does not exist.
func (s *TodoService) HasAccess(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	todo, err := s.todoRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if todo.UserID == userID {
		return true, nil
	}

	_, err = s.collabRepo.GetByPair(ctx, taskID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

type CreateTodoInput struct {
	Title       string
	Description *string
	ExpiresAt   *time.Time
	CompletedAt *time.Time
}

func (s *TodoService) Create(ctx context.Context, ownerID uuid.UUID, input CreateTodoInput) (*domain.Todo, error) {
	if input.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	todo := &domain.Todo{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		ExpiresAt:   input.ExpiresAt,
		CompletedAt: input.CompletedAt,
		UserID:      ownerID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if input.CompletedAt != nil {
		id := ownerID
		todo.CompletedBy = &id
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}

	s.hub.Publish(ownerID, ws.NewEvent(ws.EventTodoCreated, todo))
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, taskID, userID uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	allowed, err := s.HasAccess(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrUnauthorized
	}
	return todo, nil
}

// List returns the user's own tasks plus tasks shared with them, deduped
// and ordered newest first.
func (s *TodoService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Todo, error) {
	owned, err := s.todoRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.collabRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(owned))
	todos := make([]*domain.Todo, 0, len(owned)+len(memberships))
	for _, todo := range owned {
		seen[todo.ID] = struct{}{}
		todos = append(todos, todo)
	}
	for _, row := range memberships {
		if _, ok := seen[row.TaskID]; ok {
			continue
		}
		todo, err := s.todoRepo.GetByID(ctx, row.TaskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // stale membership
			}
			return nil, err
		}
		seen[todo.ID] = struct{}{}
		todos = append(todos, todo)
	}

	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
	return todos, nil
}

func (s *TodoService) Update(ctx context.Context, taskID, userID uuid.UUID, patch domain.TodoPatch) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	allowed, err := s.HasAccess(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrUnauthorized
	}

	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	critical, completed := patch.Apply(todo, actor)
	todo.UpdatedAt = time.Now()
	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	if critical || completed {
		title := "Task updated"
		body := fmt.Sprintf("%s updated '%s'", actor.DisplayName(), todo.Title)
		if completed {
			title = "Task completed"
			body = fmt.Sprintf("%s completed '%s'", actor.DisplayName(), todo.Title)
		}
		s.notifyCollaborators(ctx, todo, userID, title, body)
	}
	return todo, nil
}

// Toggle flips completion state. Completing stamps the acting user;
// un-completing clears both completion fields.
func (s *TodoService) Toggle(ctx context.Context, taskID, userID uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	allowed, err := s.HasAccess(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrUnauthorized
	}

	completing := !todo.IsCompleted()
	if completing {
		now := time.Now()
		id := userID
		todo.CompletedAt = &now
		todo.CompletedBy = &id
	} else {
		todo.CompletedAt = nil
		todo.CompletedBy = nil
	}
	todo.UpdatedAt = time.Now()
	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	if completing {
		actor, err := s.userRepo.GetByID(ctx, userID)
		actorName := "Someone"
		if err == nil {
			actorName = actor.DisplayName()
		}
		body := fmt.Sprintf("%s completed '%s'", actorName, todo.Title)
		s.notifyCollaborators(ctx, todo, userID, "Task completed", body)
	}
	return todo, nil
}

// ToggleMute is owner-only: collaborators cannot silence someone else's
// reminders. A non-owner sees the task as not found.
func (s *TodoService) ToggleMute(ctx context.Context, taskID, userID uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	if todo.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}

	todo.IsMuted = !todo.IsMuted
	todo.UpdatedAt = time.Now()
	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete removes the task when the owner asks, cascading collaborator
// rows first so no orphans survive a partial failure. A collaborator
// "leaves" instead: only their membership row is removed. Left reports
// which of the two happened.
func (s *TodoService) Delete(ctx context.Context, taskID, userID uuid.UUID) (left bool, err error) {
	todo, err := s.todoRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrTaskNotFound
		}
		return false, err
	}

	if todo.UserID == userID {
		rows, err := s.collabRepo.GetByTask(ctx, taskID)
		if err != nil {
			return false, err
		}
		if err := s.collabRepo.DeleteByTask(ctx, taskID); err != nil {
			return false, err
		}
		if err := s.todoRepo.Delete(ctx, taskID); err != nil {
			return false, err
		}
		for _, row := range rows {
			s.hub.Publish(row.UserID, ws.NewEvent(ws.EventTodoDeleted, map[string]interface{}{
				"taskId": taskID,
			}))
		}
		return false, nil
	}

	row, err := s.collabRepo.GetByPair(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrUnauthorized
		}
		return false, err
	}
	if err := s.collabRepo.Delete(ctx, row.ID); err != nil {
		return false, err
	}
	s.hub.Publish(todo.UserID, ws.NewEvent(ws.EventCollaboratorRemoved, map[string]interface{}{
		"taskId": taskID,
		"userId": userID,
	}))
	return true, nil
}

// ListCollaborators resolves the task's collaborator rows to public
// profiles, dropping rows whose user no longer exists.
func (s *TodoService) ListCollaborators(ctx context.Context, taskID, actingUserID uuid.UUID) ([]*domain.PublicProfile, error) {
	allowed, err := s.HasAccess(ctx, taskID, actingUserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrUnauthorized
	}

	rows, err := s.collabRepo.GetByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	users := []*domain.PublicProfile{}
	for _, row := range rows {
		user, err := s.userRepo.GetByID(ctx, row.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // stale reference
			}
			return nil, err
		}
		users = append(users, user.Public())
	}
	return users, nil
}

// AddCollaborator shares a task with a friend. Only the owner may share,
// and only with users holding a friendship edge with the owner. Sharing
// twice is a no-op.
func (s *TodoService) AddCollaborator(ctx context.Context, taskID, friendID, actingUserID uuid.UUID) error {
	todo, err := s.todoRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	if todo.UserID != actingUserID {
		return domain.ErrUnauthorized
	}

	if _, err := s.friendshipRepo.GetByPair(ctx, actingUserID, friendID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFriends
		}
		return err
	}

	_, err = s.collabRepo.GetByPair(ctx, taskID, friendID)
	if err == nil {
		return nil // already shared
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.collabRepo.Create(ctx, &domain.TaskCollaborator{
		ID:     uuid.New(),
		TaskID: taskID,
		UserID: friendID,
	}); err != nil {
		return err
	}

	s.hub.Publish(friendID, ws.NewEvent(ws.EventCollaboratorAdded, map[string]interface{}{
		"taskId": taskID,
		"title":  todo.Title,
	}))
	return nil
}

// RemoveCollaborator is owner-only and idempotent.
func (s *TodoService) RemoveCollaborator(ctx context.Context, taskID, friendID, actingUserID uuid.UUID) error {
	todo, err := s.todoRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	if todo.UserID != actingUserID {
		return domain.ErrUnauthorized
	}

	row, err := s.collabRepo.GetByPair(ctx, taskID, friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := s.collabRepo.Delete(ctx, row.ID); err != nil {
		return err
	}

	s.hub.Publish(friendID, ws.NewEvent(ws.EventCollaboratorRemoved, map[string]interface{}{
		"taskId": taskID,
	}))
	return nil
}

// notifyCollaborators fans a mutation notice out to every collaborator
// except the actor. Delivery failures are isolated per recipient and
// never fail the mutation that triggered them.
func (s *TodoService) notifyCollaborators(ctx context.Context, todo *domain.Todo, actorID uuid.UUID, title, body string) {
	rows, err := s.collabRepo.GetByTask(ctx, todo.ID)
	if err != nil {
		return
	}
	url := fmt.Sprintf("/todos/task/%s", todo.ID)
	for _, row := range rows {
		if row.UserID == actorID {
			continue
		}
		s.notifications.Notify(ctx, row.UserID, title, body, url)
	}
}
