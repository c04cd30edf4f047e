package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

type stubAuthService struct {
	ports.AuthService
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	verifyFn   func(ctx context.Context, token string) error
	resetFn    func(ctx context.Context, userID, oldPassword, newPassword string) error
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) error {
	return s.verifyFn(ctx, token)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.resetFn(ctx, userID, oldPassword, newPassword)
}

// newContext builds an echo context with the validator installed. A non-empty
// userID simulates the Auth middleware.
func newContext(method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(ContextUserID, userID)
		c.Set(ContextRole, string(domain.RoleUser))
	}
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
	return resp
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.FirstName != "Alice" || in.Email != "a@example.com" || in.Password != "secret123" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", FirstName: in.FirstName, Email: in.Email, Role: domain.RoleUser, UserType: domain.UserTypeVisitor}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/auth/register",
		`{"firstName":"Alice","lastName":"Smith","email":"a@example.com","password":"secret123"}`, "")
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	user, ok := decodeEnvelope(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["id"] != "u1" || user["role"] != "user" || user["userType"] != "visitor" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password must never be serialized")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newContext(http.MethodPost, "/v1/auth/register",
		`{"firstName":"Alice","lastName":"Smith","email":"a@example.com","password":"secret123"}`, "")

	err := NewAuthHandler(stub).Register(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	tests := map[string]string{
		"malformed json": `{"firstName":`,
		"missing names":  `{"email":"a@example.com","password":"secret123"}`,
		"bad email":      `{"firstName":"A","lastName":"B","email":"nope","password":"secret123"}`,
		"short password": `{"firstName":"A","lastName":"B","email":"a@example.com","password":"short"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			stub := &stubAuthService{
				registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			c, _ := newContext(http.MethodPost, "/v1/auth/register", body, "")
			assertHTTPError(t, NewAuthHandler(stub).Register(c), http.StatusBadRequest)
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "a@example.com" || password != "secret123" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Email: email, IsVerified: true}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/auth/login", `{"email":"a@example.com","password":"secret123"}`, "")

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["token"] != "token123" {
		t.Fatalf("expected token in response, got %+v", data)
	}
	if data["user"].(map[string]any)["isVerified"] != true {
		t.Fatalf("expected user in response, got %+v", data)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrAccountUnverified, domain.ErrSocialSignIn} {
		t.Run(want.Error(), func(t *testing.T) {
			stub := &stubAuthService{
				loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
					return "", nil, want
				},
			}
			c, _ := newContext(http.MethodPost, "/v1/auth/login", `{"email":"a@example.com","password":"x"}`, "")
			if err := NewAuthHandler(stub).Login(c); !errors.Is(err, want) {
				t.Fatalf("expected %v, got %v", want, err)
			}
		})
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/v1/auth/login", `{"email":"a@example.com"}`, "")
	assertHTTPError(t, NewAuthHandler(&stubAuthService{}).Login(c), http.StatusBadRequest)
}

func TestAuthHandler_Verify(t *testing.T) {
	var got string
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, token string) error {
			got = token
			return nil
		},
	}
	c, rec := newContext(http.MethodGet, "/v1/auth/verify?token=abc", "", "")
	if err := NewAuthHandler(stub).Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "abc" || rec.Code != http.StatusOK {
		t.Fatalf("expected token abc and 200, got %q %d", got, rec.Code)
	}

	c, _ = newContext(http.MethodGet, "/v1/auth/verify", "", "")
	if err := NewAuthHandler(stub).Verify(c); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAuthHandler_ResetPassword_UsesCaller(t *testing.T) {
	stub := &stubAuthService{
		resetFn: func(ctx context.Context, userID, oldPassword, newPassword string) error {
			if userID != "u1" || oldPassword != "old" || newPassword != "brand-new-pass" {
				t.Fatalf("unexpected args: %s %s %s", userID, oldPassword, newPassword)
			}
			return nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/auth/reset-password", `{"oldPassword":"old","newPassword":"brand-new-pass"}`, "u1")
	if err := NewAuthHandler(stub).ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodPost, "/v1/auth/reset-password", `{"oldPassword":"old","newPassword":"brand-new-pass"}`, "")
	assertHTTPError(t, NewAuthHandler(stub).ResetPassword(c), http.StatusUnauthorized)
}
