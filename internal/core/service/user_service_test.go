package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devlink/devlink-api/internal/core/domain"
	"github.com/devlink/devlink-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	found := make(map[string]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found[id] = cloneUser(u)
		}
	}
	return found, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func parseUserID(t *testing.T, token, secret string) string {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	user, ok := claims["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user claim, got %v", claims["user"])
	}
	id, _ := user["id"].(string)
	return id
}

func TestUserService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "secret", time.Hour, zerolog.Nop())

	token, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	userID := parseUserID(t, token, "secret")
	user, err := repo.FindByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !strings.HasPrefix(user.Avatar, "https://gravatar.com/avatar/") {
		t.Fatalf("unexpected avatar url: %s", user.Avatar)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "secret", time.Hour, zerolog.Nop())

	input := ports.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "secret1"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "secret", time.Hour, zerolog.Nop())

	regToken, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "s3cret1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	loginToken, err := svc.Login(context.Background(), "carol@example.com", "s3cret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Both tokens must identify the same account.
	if parseUserID(t, regToken, "secret") != parseUserID(t, loginToken, "secret") {
		t.Fatalf("registration and login tokens identify different users")
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "secret", time.Hour, zerolog.Nop())

	_, _ = svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Dave",
		Email:    "dave@example.com",
		Password: "right-password",
	})

	if _, err := svc.Login(context.Background(), "dave@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_Login_UnknownEmailSameError(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "secret", time.Hour, zerolog.Nop())

	_, _ = svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Erin",
		Email:    "erin@example.com",
		Password: "right-password",
	})

	_, unknownErr := svc.Login(context.Background(), "ghost@example.com", "whatever")
	_, wrongErr := svc.Login(context.Background(), "erin@example.com", "wrong")

	// Unknown email and wrong password must be indistinguishable.
	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) || !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v / %v", unknownErr, wrongErr)
	}
}

func TestUserService_CurrentUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, "secret", time.Hour, zerolog.Nop())

	token, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Frank",
		Email:    "frank@example.com",
		Password: "pass456",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.CurrentUser(context.Background(), parseUserID(t, token, "secret"))
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.Name != "Frank" || user.Email != "frank@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGravatarURL_Deterministic(t *testing.T) {
	a := gravatarURL("Alice@Example.com ")
	b := gravatarURL("alice@example.com")
	if a != b {
		t.Fatalf("expected case/whitespace-insensitive url, got %s vs %s", a, b)
	}
	if !strings.Contains(a, "?s=200&r=pg&d=mm") {
		t.Fatalf("unexpected gravatar parameters: %s", a)
	}
}
