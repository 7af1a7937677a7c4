package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/dto"
	"github.com/eduflow/course-booking/internal/repository"
	"github.com/eduflow/course-booking/internal/store"
)

func newAuthFixture(t *testing.T) (AuthService, *store.MemoryUserStore, repository.SessionRepository) {
	t.Helper()
	users := store.NewMemoryUserStore()
	sessions := repository.NewMemorySessionRepository()
	svc := NewAuthService(users, sessions, &AuthServiceConfig{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	return svc, users, sessions
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hashed password and opens a session", func(t *testing.T) {
		svc, users, sessions := newAuthFixture(t)

		resp, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "Anna@Example.com",
			Password: "secret-pass",
			Name:     "Anna",
		})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}
		if resp.User == nil {
			t.Fatal("response should carry the sanitized user")
		}
		if resp.User.Email != "anna@example.com" {
			t.Errorf("email = %s, want anna@example.com", resp.User.Email)
		}

		stored, err := users.FindByEmail(ctx, "anna@example.com")
		if err != nil || len(stored) != 1 {
			t.Fatalf("stored users = %d, err = %v", len(stored), err)
		}
		if !stored[0].HasHashedPassword() {
			t.Error("password should be bcrypt hashed")
		}
		if stored[0].RegisteredDate.IsZero() {
			t.Error("registeredDate should be set")
		}

		if _, err := sessions.GetByToken(ctx, resp.Token); err != nil {
			t.Errorf("session not stored: %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, users, _ := newAuthFixture(t)
		users.Seed(&domain.User{ID: "u1", Email: "anna@example.com", Password: "pw"})

		_, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "anna@example.com",
			Password: "secret-pass",
		})
		if !errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			t.Fatalf("error = %v, want ErrEmailAlreadyRegistered", err)
		}

		matches, err := users.FindByEmail(ctx, "anna@example.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 1 {
			t.Errorf("users = %d, want 1 (no second user created)", len(matches))
		}
	})

	t.Run("weak password", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)

		_, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "anna@example.com",
			Password: "short",
		})
		if !errors.Is(err, domain.ErrWeakPassword) {
			t.Fatalf("error = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)

		_, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "not-an-email",
			Password: "secret-pass",
		})
		if !errors.Is(err, domain.ErrInvalidEmail) {
			t.Fatalf("error = %v, want ErrInvalidEmail", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("hashed password", func(t *testing.T) {
		svc, users, _ := newAuthFixture(t)
		hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
		if err != nil {
			t.Fatal(err)
		}
		users.Seed(&domain.User{ID: "u1", Email: "anna@example.com", Password: string(hash)})

		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "anna@example.com", Password: "secret-pass"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.User.ID != "u1" {
			t.Errorf("user = %s, want u1", resp.User.ID)
		}
	})

	t.Run("legacy plaintext password", func(t *testing.T) {
		svc, users, _ := newAuthFixture(t)
		users.Seed(&domain.User{ID: "u1", Email: "old@example.com", Password: "plain-pass"})

		if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "old@example.com", Password: "plain-pass"}); err != nil {
			t.Fatalf("Login() error = %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _ := newAuthFixture(t)
		users.Seed(&domain.User{ID: "u1", Email: "anna@example.com", Password: "plain-pass"})

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "anna@example.com", Password: "wrong"})
		if !errors.Is(err, domain.ErrInvalidPassword) {
			t.Fatalf("error = %v, want ErrInvalidPassword", err)
		}
	})
}

func TestValidateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		svc, users, _ := newAuthFixture(t)
		users.Seed(&domain.User{ID: "u1", Email: "anna@example.com", Password: "plain-pass", IsAdmin: true})

		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "anna@example.com", Password: "plain-pass"})
		if err != nil {
			t.Fatal(err)
		}

		session, err := svc.ValidateToken(ctx, resp.Token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if session.UserID != "u1" {
			t.Errorf("userID = %s, want u1", session.UserID)
		}
		if session.User == nil || !session.User.IsAdmin {
			t.Error("session should carry the sanitized admin user")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)

		_, err := svc.ValidateToken(ctx, "not-a-jwt")
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		users := store.NewMemoryUserStore()
		sessions := repository.NewMemorySessionRepository()
		users.Seed(&domain.User{ID: "u1", Email: "anna@example.com", Password: "plain-pass"})

		other := NewAuthService(users, sessions, &AuthServiceConfig{JWTSecret: "other-secret", BcryptCost: bcrypt.MinCost})
		resp, err := other.Login(context.Background(), &dto.LoginRequest{Email: "anna@example.com", Password: "plain-pass"})
		if err != nil {
			t.Fatal(err)
		}

		svc := NewAuthService(users, sessions, &AuthServiceConfig{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost})
		if _, err := svc.ValidateToken(context.Background(), resp.Token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired session is removed", func(t *testing.T) {
		users := store.NewMemoryUserStore()
		sessions := repository.NewMemorySessionRepository()
		users.Seed(&domain.User{ID: "u1", Email: "anna@example.com", Password: "plain-pass"})
		svc := NewAuthService(users, sessions, &AuthServiceConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		})

		resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "anna@example.com", Password: "plain-pass"})
		if err != nil {
			t.Fatal(err)
		}

		// backdate the stored session past its expiry
		session, err := sessions.GetByToken(context.Background(), resp.Token)
		if err != nil {
			t.Fatal(err)
		}
		session.ExpiresAt = time.Now().Add(-time.Minute)
		if err := sessions.Create(context.Background(), session, time.Hour); err != nil {
			t.Fatal(err)
		}

		if _, err := svc.ValidateToken(context.Background(), resp.Token); !errors.Is(err, domain.ErrSessionExpired) {
			t.Fatalf("error = %v, want ErrSessionExpired", err)
		}
		if _, err := sessions.GetByToken(context.Background(), resp.Token); !errors.Is(err, domain.ErrSessionNotFoundAuth) {
			t.Errorf("expired session should be deleted, got %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, users, sessions := newAuthFixture(t)
	users.Seed(&domain.User{ID: "u1", Email: "anna@example.com", Password: "plain-pass"})

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "anna@example.com", Password: "plain-pass"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := sessions.GetByToken(ctx, resp.Token); !errors.Is(err, domain.ErrSessionNotFoundAuth) {
		t.Errorf("session should be gone, got %v", err)
	}

	// logging out twice is not an error
	if err := svc.Logout(ctx, resp.Token); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthFixture(t)
	users.Seed(&domain.User{
		ID:       "u1",
		Email:    "anna@example.com",
		Password: "plain-pass",
		Name:     "Anna",
		Phone:    "123",
	})

	name := "Anna B"
	address := "Main St 1"
	updated, err := svc.UpdateProfile(ctx, "u1", &dto.UpdateProfileRequest{
		Name:    &name,
		Address: &address,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Anna B" {
		t.Errorf("name = %s, want Anna B", updated.Name)
	}
	if updated.Address != "Main St 1" {
		t.Errorf("address = %s, want Main St 1", updated.Address)
	}
	if updated.Phone != "123" {
		t.Errorf("phone = %s, want 123 (untouched)", updated.Phone)
	}
	if updated.Password != "" {
		t.Error("returned user must not carry the password")
	}
}
