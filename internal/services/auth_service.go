package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookingportal/internal/caching"
	"bookingportal/internal/common"
	"bookingportal/internal/logging"
	"bookingportal/internal/models"
	"bookingportal/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	userCacheTTL      = 5 * time.Minute
)

// AuthService handles signup, password login, session tokens and their revocation
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error

	// ParseToken verifies signature and expiry of a session token.
	ParseToken(raw string) (*jwt.Token, error)
	// CheckSession re-validates a parsed token against the session table.
	CheckSession(ctx context.Context, token *jwt.Token) (*models.User, error)
	// Authenticate resolves the user behind a session token.
	Authenticate(ctx context.Context, token string) (*models.User, error)

	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

type AuthConfig struct {
	JWTSecret       string
	JWTTTL          time.Duration
	SessionTTL      time.Duration
	BcryptCost      int
	LoginRateLimit  int // 0 disables
	LoginRateWindow time.Duration
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token          string            `json:"token"`
	TokenExpiresAt time.Time         `json:"tokenExpiresAt"`
	ExpiresAt      time.Time         `json:"expiresAt"`
	User           models.PublicUser `json:"user"`
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	Email   string `json:"email"`
	Sm8UUID string `json:"sm8Uuid,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	sm8      ServiceM8Client
	cacheSvc caching.CacheService
	cfg      AuthConfig
	logger   logging.Logger
	now      func() time.Time
}

func NewAuthService(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	sm8 ServiceM8Client,
	cacheSvc caching.CacheService,
	cfg AuthConfig,
	logger logging.Logger,
) AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		users:    users,
		sessions: sessions,
		sm8:      sm8,
		cacheSvc: cacheSvc,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, common.ErrInvalidSignup
	}
	if len(input.Password) < minPasswordLength {
		return nil, common.ErrPasswordTooShort
	}

	exists, err := s.users.ExistsByEmailOrPhone(ctx, input.Email, input.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, common.ErrMissingCredentials
	}

	if s.cfg.LoginRateLimit > 0 {
		key := "login:" + strings.ToLower(identifier)
		limited, err := s.cacheSvc.IsRateLimited(ctx, key, s.cfg.LoginRateLimit, s.cfg.LoginRateWindow)
		if err != nil {
			s.logger.Warn(ctx, "login rate limit check failed", "error", err)
		} else if limited {
			return nil, common.ErrRateLimited
		}
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	contacts, err := s.sm8.FindContactsByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up servicem8 contact: %w", err)
	}
	companyUUID := pickCompanyUUID(contacts)
	if companyUUID == "" {
		return nil, common.ErrExternalAccountNotFound
	}

	if err := s.users.UpdateSm8UUID(ctx, user.ID, companyUUID); err != nil {
		return nil, err
	}
	user.Sm8UUID = &companyUUID

	now := s.now().UTC()
	token, tokenExpiry, err := s.issueToken(user, now)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.New(),
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	// The cached profile must carry the freshly linked company.
	if err := s.cacheSvc.SetUser(ctx, user, userCacheTTL); err != nil {
		s.logger.Warn(ctx, "failed to cache user", "user_id", user.ID, "error", err)
		_ = s.cacheSvc.DeleteUser(ctx, user.ID)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID, "sm8_uuid", companyUUID)
	return &LoginResult{
		Token:          token,
		TokenExpiresAt: tokenExpiry,
		ExpiresAt:      session.ExpiresAt,
		User:           user.Public(),
	}, nil
}

// pickCompanyUUID prefers the first active contact that belongs to a company.
func pickCompanyUUID(contacts []models.CompanyContact) string {
	for _, c := range contacts {
		if c.Active == 1 && c.CompanyUUID != "" {
			return c.CompanyUUID
		}
	}
	for _, c := range contacts {
		if c.CompanyUUID != "" {
			return c.CompanyUUID
		}
	}
	return ""
}

func (s *authService) issueToken(user *models.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.cfg.JWTTTL)
	claims := TokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	if user.Sm8UUID != nil {
		claims.Sm8UUID = *user.Sm8UUID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	deleted, err := s.sessions.DeleteByToken(ctx, token)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "session revoked", "deleted", deleted)
	return nil
}

func (s *authService) ParseToken(raw string) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return token, nil
}

func (s *authService) CheckSession(ctx context.Context, token *jwt.Token) (*models.User, error) {
	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, common.ErrSessionNotFound
	}
	user, err := s.Authenticate(ctx, token.Raw)
	if err != nil {
		return nil, err
	}
	if claims.Subject != user.ID.String() {
		return nil, common.ErrSessionNotFound
	}
	return user, nil
}

// Authenticate always consults the session table, so a deleted row revokes the
// token immediately. Only the user profile comes from the cache.
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrSessionNotFound
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.ErrSessionNotFound
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, common.ErrSessionNotFound
	}

	user, cached, err := s.cacheSvc.GetUser(ctx, session.UserID)
	if err != nil {
		s.logger.Warn(ctx, "user cache lookup failed", "user_id", session.UserID, "error", err)
		cached = false
	}
	if cached {
		return user, nil
	}

	user, err = s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.ErrSessionNotFound
		}
		return nil, err
	}
	if err := s.cacheSvc.SetUser(ctx, user, userCacheTTL); err != nil {
		s.logger.Warn(ctx, "failed to cache user", "user_id", user.ID, "error", err)
	}
	return user, nil
}

func (s *authService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}
