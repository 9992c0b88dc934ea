package postgres

import (
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Todo{},
		&domain.Friendship{},
		&domain.FriendRequest{},
		&domain.TaskCollaborator{},
		&domain.PushSubscription{},
		&domain.AuthCode{},
		&domain.RefreshToken{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:          NewUserRepository(db),
		Todo:          NewTodoRepository(db),
		Friendship:    NewFriendshipRepository(db),
		FriendRequest: NewFriendRequestRepository(db),
		Collaborator:  NewCollaboratorRepository(db),
		Subscription:  NewSubscriptionRepository(db),
		AuthCode:      NewAuthCodeRepository(db),
		RefreshToken:  NewRefreshTokenRepository(db),
	}
}
