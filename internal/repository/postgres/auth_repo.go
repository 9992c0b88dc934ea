package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type authCodeRepository struct {
	db *gorm.DB
}

func NewAuthCodeRepository(db *gorm.DB) *authCodeRepository {
	return &authCodeRepository{db: db}
}

func (r *authCodeRepository) Create(ctx context.Context, code *domain.AuthCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *authCodeRepository) GetByEmailAndCode(ctx context.Context, email, code string) (*domain.AuthCode, error) {
	var row domain.AuthCode
	err := r.db.WithContext(ctx).First(&row, "email = ? AND code = ?", email, code).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *authCodeRepository) GetLatestByEmail(ctx context.Context, email string) (*domain.AuthCode, error) {
	var row domain.AuthCode
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("expires_at DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *authCodeRepository) Delete(ctx context.Context, id uuid.UUID) (int, error) {
	res := r.db.WithContext(ctx).Delete(&domain.AuthCode{}, "id = ?", id)
	return int(res.RowsAffected), res.Error
}

func (r *authCodeRepository) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	res := r.db.WithContext(ctx).Delete(&domain.AuthCode{}, "expires_at < ?", before)
	return int(res.RowsAffected), res.Error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *refreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.RefreshToken, error) {
	var tokens []*domain.RefreshToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens).Error
	return tokens, err
}

func (r *refreshTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.RefreshToken{}, "id = ?", id).Error
}

func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.RefreshToken{}, "user_id = ?", userID).Error
}
