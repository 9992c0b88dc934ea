package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/config"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/mailer"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService implements passwordless email-code login: a short-lived
// one-time code is mailed out, consumed on verify, and exchanged for a
// JWT access token plus a revocable refresh token.
type AuthService struct {
	userRepo    repository.UserRepository
	codeRepo    repository.AuthCodeRepository
	refreshRepo repository.RefreshTokenRepository
	mail        mailer.Mailer
	cfg         *config.Config
}

func NewAuthService(userRepo repository.UserRepository, codeRepo repository.AuthCodeRepository, refreshRepo repository.RefreshTokenRepository, mail mailer.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		codeRepo:    codeRepo,
		refreshRepo: refreshRepo,
		mail:        mail,
		cfg:         cfg,
	}
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) SendCode(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrEmailRequired
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	record := &domain.AuthCode{
		ID:        uuid.New(),
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(s.cfg.AuthCodeTTL),
		CreatedAt: time.Now(),
	}
	if err := s.codeRepo.Create(ctx, record); err != nil {
		return err
	}

	text := fmt.Sprintf("Your login code is %s. It expires in 1 minute.", code)
	html := fmt.Sprintf("<p>Your login code is <strong>%s</strong>. It expires in 1 minute.</p>", code)
	return s.mail.Send(ctx, email, "Your login code", text, html)
}

// CodeStatus returns the expiry of the most recent outstanding code for
// an email, or nil when none exists. Used by clients to drive the resend
// cooldown.
func (s *AuthService) CodeStatus(ctx context.Context, email string) (*time.Time, error) {
	code, err := s.codeRepo.GetLatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	expiresAt := code.ExpiresAt
	return &expiresAt, nil
}

// Verify consumes the code, finds or creates the user for the email, and
// issues a token pair. The consume is a conditional delete: whoever
// removes the row wins, so a code presented twice concurrently is
// accepted exactly once.
func (s *AuthService) Verify(ctx context.Context, email, code string) (*AuthResult, error) {
	record, err := s.codeRepo.GetByEmailAndCode(ctx, email, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, domain.ErrInvalidCode
	}
	deleted, err := s.codeRepo.Delete(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, domain.ErrInvalidCode
	}

	user, err := s.findOrCreateUser(ctx, email)
	if err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, user)
}

// Refresh validates a refresh token's signature, matches it against a
// stored unexpired row, and rotates it for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.UserIDFromToken(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	stored, err := s.refreshRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	digest := tokenDigest(refreshToken)
	var matched *domain.RefreshToken
	for _, row := range stored {
		if time.Now().After(row.ExpiresAt) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(row.TokenHash), digest) == nil {
			matched = row
			break
		}
	}
	if matched == nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	// Rotate: the presented token is spent either way.
	if err := s.refreshRepo.Delete(ctx, matched.ID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return s.generateTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.refreshRepo.DeleteByUserID(ctx, userID)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CleanupExpiredCodes removes codes past their expiry. Invoked on an
// interval by the scheduler.
func (s *AuthService) CleanupExpiredCodes(ctx context.Context) error {
	deleted, err := s.codeRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	if deleted > 0 {
		log.Printf("cleaned up %d expired auth codes", deleted)
	}
	return nil
}

func (s *AuthService) findOrCreateUser(ctx context.Context, email string) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &domain.User{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) generateTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.signToken(user.ID, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.signToken(user.ID, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	// Stored hashed so a database leak does not leak usable tokens.
	hashed, err := bcrypt.GenerateFromPassword(tokenDigest(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	record := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: string(hashed),
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
		CreatedAt: time.Now(),
	}
	if err := s.refreshRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) signToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// UserIDFromToken checks a token's signature and expiry and returns the
// user ID carried in its subject claim. It is the single place tokens
// are turned back into user identities, shared by the HTTP middleware,
// the WebSocket upgrade, and refresh rotation.
func (s *AuthService) UserIDFromToken(tokenString string) (uuid.UUID, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	sub, ok := (*claims)["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("token has no subject claim")
	}
	return uuid.Parse(sub)
}

func (s *AuthService) parseToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}
	return nil, errors.New("invalid token")
}

// tokenDigest pre-hashes the token so it fits bcrypt's input limit.
func tokenDigest(token string) []byte {
	digest := sha256.Sum256([]byte(token))
	return digest[:]
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
