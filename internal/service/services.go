package service

import (
	"github.com/nizar-zouaoui/my-todos-personal/internal/config"
	"github.com/nizar-zouaoui/my-todos-personal/internal/mailer"
	"github.com/nizar-zouaoui/my-todos-personal/internal/push"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
	"github.com/nizar-zouaoui/my-todos-personal/internal/ws"
)

type Services struct {
	Auth         *AuthService
	User         *UserService
	Friend       *FriendService
	Todo         *TodoService
	Notification *NotificationService
	Reminder     *ReminderService
}

// NewServices wires the service graph. sender may be nil when no VAPID
// keys are configured; push delivery is then disabled but every other
// flow keeps working.
func NewServices(repos *repository.Repositories, cfg *config.Config, mail mailer.Mailer, sender push.Sender, hub *ws.Hub) *Services {
	notifications := NewNotificationService(repos.Subscription, sender, hub)
	return &Services{
		Auth:         NewAuthService(repos.User, repos.AuthCode, repos.RefreshToken, mail, cfg),
		User:         NewUserService(repos.User),
		Friend:       NewFriendService(repos.User, repos.Friendship, repos.FriendRequest, hub),
		Todo:         NewTodoService(repos.Todo, repos.Collaborator, repos.Friendship, repos.User, notifications, hub),
		Notification: notifications,
		Reminder:     NewReminderService(repos.Todo, repos.Subscription, notifications, cfg),
	}
}
