package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trainerdesk/internal/caching"
	"trainerdesk/internal/models"
	"trainerdesk/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer = "trainerdesk"

	// Session cookies the browser client may carry the token in.
	SessionCookieName       = "trainerdesk.session-token"
	SecureSessionCookieName = "__Secure-trainerdesk.session-token"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// AuthService issues and checks session tokens
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	IssueToken(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*SessionClaims, error)
	RevokeToken(ctx context.Context, claims *SessionClaims) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// SessionClaims is the payload of a session token. Subject holds the user id.
type SessionClaims struct {
	TrainerID string `json:"trainerId,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *SessionClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TrainerUUID parses the trainer claim; uuid.Nil when the user has no trainer.
func (c *SessionClaims) TrainerUUID() uuid.UUID {
	id, err := uuid.Parse(c.TrainerID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

type authService struct {
	userRepo  repositories.UserRepository
	cacheSvc  caching.CacheService
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		cacheSvc:  cacheSvc,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// NormalizeEmail is applied to every address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the credentials and issues a session token. Unknown users and
// wrong passwords produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.IssueToken(ctx, user)
}

func (s *authService) IssueToken(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	tokenID := uuid.NewString()

	claims := SessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}
	if user.TrainerID != nil {
		claims.TrainerID = user.TrainerID.String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		ExpiresAt:   expiresAt,
		TokenID:     tokenID,
		User:        user,
	}, nil
}

// ValidateToken verifies signature, expiry and issuer, then consults the denylist.
// A denylist lookup failure is logged and the token accepted.
func (s *authService) ValidateToken(ctx context.Context, token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	revoked, err := s.cacheSvc.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("Token denylist lookup failed", zap.String("token_id", claims.ID), zap.Error(err))
		return claims, nil
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// RevokeToken denylists the token for the rest of its lifetime.
func (s *authService) RevokeToken(ctx context.Context, claims *SessionClaims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.cacheSvc.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
