package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*domain.PublicProfile, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	AvatarURL *string
	Birthday  *time.Time
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != "" {
		existing, err := s.userRepo.GetByUsername(ctx, *input.Username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, domain.ErrUsernameTaken
		}
	}

	if input.FirstName != nil {
		user.FirstName = input.FirstName
	}
	if input.LastName != nil {
		user.LastName = input.LastName
	}
	if input.Username != nil {
		user.Username = input.Username
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	if input.Birthday != nil {
		user.Birthday = input.Birthday
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SearchUsers matches the keyword as a case-insensitive substring of
// username, email, or first name. The acting user is excluded; an empty
// keyword matches nobody. No pagination, no ranking.
func (s *UserService) SearchUsers(ctx context.Context, actingUserID uuid.UUID, keyword string) ([]*domain.User, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return []*domain.User{}, nil
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := []*domain.User{}
	for _, user := range users {
		if user.ID == actingUserID {
			continue
		}
		var username, firstName string
		if user.Username != nil {
			username = strings.ToLower(*user.Username)
		}
		if user.FirstName != nil {
			firstName = strings.ToLower(*user.FirstName)
		}
		email := strings.ToLower(user.Email)
		if strings.Contains(username, keyword) ||
			strings.Contains(email, keyword) ||
			strings.Contains(firstName, keyword) {
			matches = append(matches, user)
		}
	}
	return matches, nil
}
