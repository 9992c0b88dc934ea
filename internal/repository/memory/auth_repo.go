package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type authCodeRepository struct {
	mu    sync.RWMutex
	codes map[uuid.UUID]domain.AuthCode
}

func NewAuthCodeRepository() *authCodeRepository {
	return &authCodeRepository{codes: make(map[uuid.UUID]domain.AuthCode)}
}

func (r *authCodeRepository) Create(ctx context.Context, code *domain.AuthCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	r.codes[code.ID] = *code
	return nil
}

func (r *authCodeRepository) GetByEmailAndCode(ctx context.Context, email, code string) (*domain.AuthCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.codes {
		if row.Email == email && row.Code == code {
			c := row
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *authCodeRepository) GetLatestByEmail(ctx context.Context, email string) (*domain.AuthCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.AuthCode
	for _, row := range r.codes {
		if row.Email != email {
			continue
		}
		if latest == nil || row.ExpiresAt.After(latest.ExpiresAt) {
			c := row
			latest = &c
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *authCodeRepository) Delete(ctx context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codes[id]; !ok {
		return 0, nil
	}
	delete(r.codes, id)
	return 1, nil
}

func (r *authCodeRepository) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for id, row := range r.codes {
		if row.ExpiresAt.Before(before) {
			delete(r.codes, id)
			deleted++
		}
	}
	return deleted, nil
}

type refreshTokenRepository struct {
	mu     sync.RWMutex
	tokens map[uuid.UUID]domain.RefreshToken
}

func NewRefreshTokenRepository() *refreshTokenRepository {
	return &refreshTokenRepository{tokens: make(map[uuid.UUID]domain.RefreshToken)}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.tokens[token.ID] = *token
	return nil
}

func (r *refreshTokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tokens []*domain.RefreshToken
	for _, token := range r.tokens {
		if token.UserID == userID {
			t := token
			tokens = append(tokens, &t)
		}
	}
	return tokens, nil
}

func (r *refreshTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, id)
	return nil
}

func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}
