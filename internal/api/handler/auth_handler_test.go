package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
	"github.com/carelink/health-exchange/internal/core/session"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*ports.TokenPair, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

// memorySessions hands out stores over a shared map of in-memory persistences,
// one per session id.
type memorySessions struct {
	backends map[string]*session.MemoryPersistence
}

func newMemorySessions() *memorySessions {
	return &memorySessions{backends: make(map[string]*session.MemoryPersistence)}
}

func (m *memorySessions) factory(sessionID string) *session.Store {
	p, ok := m.backends[sessionID]
	if !ok {
		p = session.NewMemoryPersistence()
		m.backends[sessionID] = p
	}
	return session.NewStore(p, zerolog.Nop())
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
			if input.Email != "alice@example.com" || input.Role != domain.RolePatient {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.RegisterResult{Role: input.Role, RoleID: "PAT-20260830-0001"}, nil
		},
	}
	h := NewAuthHandler(stub, newMemorySessions().factory)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/register",
		`{"email":"alice@example.com","password":"password1","role":"patient","first_name":"Alice","last_name":"Smith"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role_id"] != "PAT-20260830-0001" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_ValidationFailures(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, newMemorySessions().factory)

	cases := []string{
		`{"email":"not-an-email","password":"password1","role":"patient"}`,
		`{"email":"a@b.c","password":"short","role":"patient"}`,
		`{"email":"a@b.c","password":"password1","role":"admin"}`,
	}
	for _, body := range cases {
		c, _ := newJSONContext(t, http.MethodPost, "/v1/auth/register", body)
		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnprocessableEntity {
			t.Fatalf("body %s: expected 422, got %v", body, err)
		}
	}
}

func TestAuthHandler_Login_EstablishesSession(t *testing.T) {
	identity := domain.Identity{Email: "alice@example.com", Role: domain.RolePatient, FirstName: "Alice"}
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				Tokens:    ports.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
				Identity:  identity,
				SessionID: "sess-1",
				Landing:   "/patient/dashboard",
			}, nil
		},
	}
	sessions := newMemorySessions()
	h := NewAuthHandler(stub, sessions.factory)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"password1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["landing"] != "/patient/dashboard" || resp["session_id"] != "sess-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	// The session was written through to persistence.
	store := sessions.factory("sess-1")
	store.Initialize(context.Background())
	snap := store.Snapshot()
	if snap.State != session.StateAuthenticated || snap.Identity.Email != "alice@example.com" {
		t.Fatalf("session not persisted: %+v", snap)
	}
}

func TestAuthHandler_Login_InvalidCredentialsPropagate(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, newMemorySessions().factory)

	c, _ := newJSONContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (*ports.TokenPair, error) {
			if refreshToken != "ref-token" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return &ports.TokenPair{AccessToken: "new-acc", RefreshToken: refreshToken}, nil
		},
	}
	h := NewAuthHandler(stub, newMemorySessions().factory)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/refresh", `{"refresh":"ref-token"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["access"] != "new-acc" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Logout_ClearsSession(t *testing.T) {
	sessions := newMemorySessions()
	ctx := context.Background()

	established := sessions.factory("sess-1")
	established.Initialize(ctx)
	established.Login(ctx, domain.Identity{Email: "alice@example.com", Role: domain.RolePatient})

	h := NewAuthHandler(&stubAuthService{}, sessions.factory)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/logout", "")
	c.Set("email", "alice@example.com")
	c.Set("role", domain.RolePatient)
	c.Set("session_id", "sess-1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	store := sessions.factory("sess-1")
	store.Initialize(ctx)
	if snap := store.Snapshot(); snap.State != session.StateAnonymous {
		t.Fatalf("session must be cleared, got %v", snap.State)
	}

	// Logging out twice is fine.
	c2, rec2 := newJSONContext(t, http.MethodPost, "/v1/auth/logout", "")
	c2.Set("email", "alice@example.com")
	c2.Set("role", domain.RolePatient)
	c2.Set("session_id", "sess-1")
	if err := h.Logout(c2); err != nil || rec2.Code != http.StatusNoContent {
		t.Fatalf("repeat logout: err=%v code=%d", err, rec2.Code)
	}
}
