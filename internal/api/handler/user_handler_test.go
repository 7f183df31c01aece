package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/devlink/devlink-api/internal/api/middleware"
	"github.com/devlink/devlink-api/internal/core/domain"
	"github.com/devlink/devlink-api/internal/core/ports"
)

type stubUserService struct {
	registerErr error
	loginErr    error
	currentErr  error
	token       string
	user        *domain.User

	lastRegister ports.RegisterInput
}

func (s *stubUserService) Register(_ context.Context, input ports.RegisterInput) (string, error) {
	s.lastRegister = input
	if s.registerErr != nil {
		return "", s.registerErr
	}
	return s.token, nil
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return s.token, nil
}

func (s *stubUserService) CurrentUser(_ context.Context, _ string) (*domain.User, error) {
	if s.currentErr != nil {
		return nil, s.currentErr
	}
	return s.user, nil
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var body errorsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	msgs := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		msgs = append(msgs, e.Msg)
	}
	return msgs
}

func TestUserHandler_Register_Success(t *testing.T) {
	svc := &stubUserService{token: "signed-token"}
	h := NewUserHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/users",
		`{"name":"Alice","email":"alice@example.com","password":"secret1"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Token != "signed-token" {
		t.Fatalf("expected token in response, got %+v", body)
	}
	if svc.lastRegister.Email != "alice@example.com" {
		t.Fatalf("expected service to receive input, got %+v", svc.lastRegister)
	}
}

func TestUserHandler_Register_DuplicateEmail(t *testing.T) {
	svc := &stubUserService{registerErr: domain.ErrUserExists}
	h := NewUserHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/users",
		`{"name":"Alice","email":"alice@example.com","password":"secret1"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msgs := decodeErrors(t, rec)
	if len(msgs) != 1 || msgs[0] != "User already exists" {
		t.Fatalf("unexpected error messages: %v", msgs)
	}
}

// Every failed rule must be reported, in field declaration order.
func TestUserHandler_Register_ValidationMessages(t *testing.T) {
	svc := &stubUserService{token: "unused"}
	h := NewUserHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/users",
		`{"email":"not-an-email","password":"abc"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	want := []string{
		"Name is required",
		"Please include a valid email",
		"Please enter a password with 6 or more characters",
	}
	got := decodeErrors(t, rec)
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("message %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &stubUserService{loginErr: domain.ErrInvalidCredentials}
	h := NewUserHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth",
		`{"email":"alice@example.com","password":"wrong-pass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msgs := decodeErrors(t, rec)
	if len(msgs) != 1 || msgs[0] != "Invalid Credentials" {
		t.Fatalf("unexpected error messages: %v", msgs)
	}
}

func TestUserHandler_Login_MissingFields(t *testing.T) {
	svc := &stubUserService{token: "unused"}
	h := NewUserHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth", `{}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	want := []string{"Email is required", "Password is required"}
	got := decodeErrors(t, rec)
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("message %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestUserHandler_Current_ReturnsUser(t *testing.T) {
	svc := &stubUserService{user: &domain.User{
		ID:    "user_1",
		Name:  "Alice",
		Email: "alice@example.com",
	}}
	h := NewUserHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/auth", "")
	c.Set(middleware.UserIDKey, "user_1")

	if err := h.Current(c); err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["_id"] != "user_1" || body["name"] != "Alice" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Fatalf("password hash leaked into response: %v", body)
	}
}

func TestUserHandler_Current_NoContextUser(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newTestContext(t, http.MethodGet, "/api/auth", "")

	err := h.Current(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
