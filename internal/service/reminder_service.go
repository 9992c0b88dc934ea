package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nizar-zouaoui/my-todos-personal/internal/config"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
)

// ReminderService sweeps for tasks coming due and pushes a reminder to
// the owner's devices. The window is forward-looking only: an overdue
// task is never re-announced. Collaborators are deliberately not
// notified here; that is the mutation fan-out's job.
type ReminderService struct {
	todoRepo      repository.TodoRepository
	subRepo       repository.PushSubscriptionRepository
	notifications *NotificationService
	window        time.Duration
	mode          config.ReminderMode

	now func() time.Time
}

func NewReminderService(todoRepo repository.TodoRepository, subRepo repository.PushSubscriptionRepository, notifications *NotificationService, cfg *config.Config) *ReminderService {
	return &ReminderService{
		todoRepo:      todoRepo,
		subRepo:       subRepo,
		notifications: notifications,
		window:        cfg.ReminderWindow,
		mode:          cfg.ReminderMode,
		now:           time.Now,
	}
}

// ProcessDue runs one sweep and returns the number of tasks a reminder
// was dispatched for. Muted tasks and tasks whose owner has no registered
// device are skipped and not counted.
//
// In "once" mode a task is marked notified after its dispatch and never
// selected again; in "repeat" mode nothing is marked, so a task keeps
// being announced every run until it completes or leaves the window.
// Tasks are processed sequentially; the fan-out per task is concurrent.
func (s *ReminderService) ProcessDue(ctx context.Context) (int, error) {
	now := s.now()
	windowEnd := now.Add(s.window)

	due, err := s.todoRepo.GetDue(ctx, now, windowEnd, s.mode == config.ReminderOnce)
	if err != nil {
		return 0, err
	}

	announced := 0
	for _, todo := range due {
		if todo.IsMuted {
			continue
		}

		subs, err := s.subRepo.GetByUser(ctx, todo.UserID)
		if err != nil {
			log.Printf("ERROR [reminder.ProcessDue] failed to load subscriptions for %s: %v", todo.UserID, err)
			continue
		}
		if len(subs) == 0 {
			continue
		}

		payload := domain.NotificationPayload{
			Title: "Task Due Soon!",
			Body:  todo.Title,
			URL:   fmt.Sprintf("/todos/task/%s", todo.ID),
		}
		s.notifications.Dispatch(ctx, subs, payload)
		announced++

		if s.mode == config.ReminderOnce {
			todo.IsNotified = true
			if err := s.todoRepo.Update(ctx, todo); err != nil {
				log.Printf("ERROR [reminder.ProcessDue] failed to mark %s notified: %v", todo.ID, err)
			}
		}
	}
	return announced, nil
}
