package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/dto"
	"github.com/eduflow/course-booking/internal/metrics"
	"github.com/eduflow/course-booking/internal/repository"
	"github.com/eduflow/course-booking/internal/store"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

// AuthService defines authentication and profile operations
type AuthService interface {
	// Register registers a new user and opens a session
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error)
	// Login authenticates a user and opens a session
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Logout invalidates a session token. Unknown tokens are not an error.
	Logout(ctx context.Context, token string) error
	// ValidateToken validates a token and returns its session
	ValidateToken(ctx context.Context, token string) (*domain.Session, error)
	// CurrentUser returns the user behind a session token
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	// UpdateProfile updates a user's profile fields
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error)
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	Issuer     string
	BcryptCost int
}

type authService struct {
	users    store.UserStore
	sessions repository.SessionRepository
	config   *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(users store.UserStore, sessions repository.SessionRepository, config *AuthServiceConfig) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.TokenTTL == 0 {
		config.TokenTTL = 24 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "course-booking"
	}
	return &authService{
		users:    users,
		sessions: sessions,
		config:   config,
	}
}

// Register registers a new user and opens a session
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if len(existing) > 0 {
		span.SetStatus(codes.Error, "email already registered")
		return nil, domain.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:             uuid.New().String(),
		Email:          email,
		Password:       string(hashed),
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		RegisteredDate: time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	metrics.RecordRegistration(ctx)

	return s.openSession(ctx, created)
}

// Login authenticates a user and opens a session
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	matches, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if len(matches) == 0 {
		span.SetStatus(codes.Error, "user not found")
		metrics.RecordLogin(ctx, false)
		return nil, domain.ErrUserNotFound
	}
	user := matches[0]

	if !s.checkPassword(user, req.Password) {
		span.SetStatus(codes.Error, "invalid password")
		metrics.RecordLogin(ctx, false)
		return nil, domain.ErrInvalidPassword
	}

	metrics.RecordLogin(ctx, true)
	span.SetAttributes(attribute.String("user_id", user.ID))
	return s.openSession(ctx, user)
}

// Logout invalidates a session token
func (s *authService) Logout(ctx context.Context, token string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout")
	defer span.End()

	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// ValidateToken validates a token and returns its session
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.validate_token")
	defer span.End()

	if tokenString == "" {
		return nil, domain.ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	session, err := s.sessions.GetByToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFoundAuth) {
			return nil, domain.ErrSessionNotFoundAuth
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.IsExpired(time.Now()) {
		_ = s.sessions.Delete(ctx, tokenString)
		return nil, domain.ErrSessionExpired
	}

	return session, nil
}

// CurrentUser returns the user behind a session token
func (s *authService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.User != nil {
		return session.User, nil
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// UpdateProfile updates a user's profile fields
func (s *authService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.update_profile")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}

	if len(fields) == 0 {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return user.Sanitized(), nil
	}

	updated, err := s.users.Patch(ctx, userID, fields)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, domain.ErrUserNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return updated.Sanitized(), nil
}

// checkPassword verifies a password against a bcrypt hash, falling back to
// plain equality for legacy records seeded without hashing.
func (s *authService) checkPassword(user *domain.User, password string) bool {
	if user.HasHashedPassword() {
		return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
	}
	return subtleEquals(user.Password, password)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func subtleEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := 0; i < len(a); i++ {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}

func (s *authService) openSession(ctx context.Context, user *domain.User) (*dto.LoginResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.TokenTTL)

	claims := jwt.MapClaims{
		"sub":     user.ID,
		"email":   strings.ToLower(user.Email),
		"isAdmin": user.IsAdmin,
		"iss":     s.config.Issuer,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	session := &domain.Session{
		Token:     tokenString,
		UserID:    user.ID,
		User:      user.Sanitized(),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(ctx, session, s.config.TokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &dto.LoginResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      dto.UserFromDomain(user.Sanitized()),
	}, nil
}
