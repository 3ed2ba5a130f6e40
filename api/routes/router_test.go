package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewdeck-backend/internal/directory"
	"github.com/angelmondragon/crewdeck-backend/internal/memberships"
	"github.com/angelmondragon/crewdeck-backend/internal/tokens"
	pkgauth "github.com/angelmondragon/crewdeck-backend/pkg/auth"
	"github.com/angelmondragon/crewdeck-backend/pkg/config"
	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
	"github.com/angelmondragon/crewdeck-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubSessionChecker struct {
	ok  bool
	err error
}

func (s stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return s.ok, s.err
}

type stubDirectory struct {
	list []memberships.CompanyUserDTO
}

func (s stubDirectory) ListUsers(context.Context, directory.Actor) ([]memberships.CompanyUserDTO, error) {
	return s.list, nil
}

func (s stubDirectory) GetUser(context.Context, directory.Actor, uuid.UUID) (*directory.UserView, error) {
	return &directory.UserView{}, nil
}

func (s stubDirectory) InviteUser(context.Context, directory.Actor, directory.InviteUserInput) (*directory.UserView, error) {
	return &directory.UserView{}, nil
}

func (s stubDirectory) UpdateUser(context.Context, directory.Actor, uuid.UUID, directory.UpdateUserInput) (*directory.UserView, error) {
	return &directory.UserView{}, nil
}

func (s stubDirectory) RemoveUser(context.Context, directory.Actor, uuid.UUID) error {
	return nil
}

func (s stubDirectory) ListRefreshTokens(context.Context, directory.Actor, uuid.UUID) ([]tokens.RefreshTokenDTO, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, svc directory.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               stubPinger{},
		Redis:            stubPinger{},
		SessionChecker:   stubSessionChecker{ok: true},
		DirectoryService: svc,
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:    uuid.New(),
		CompanyID: uuid.New(),
		Role:      role,
		JTI:       uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveDoesNotRequireAuth(t *testing.T) {
	router := newTestRouter(testConfig(), stubDirectory{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Crewdeck-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestHealthReadyReportsDependencyFailure(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	router := NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               stubPinger{err: context.DeadlineExceeded},
		Redis:            stubPinger{},
		SessionChecker:   stubSessionChecker{ok: true},
		DirectoryService: stubDirectory{},
	})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for failed dependency got %d", resp.Code)
	}
}

func TestUsersGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), stubDirectory{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestUsersGroupRejectsRevokedSession(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	router := NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               stubPinger{},
		Redis:            stubPinger{},
		SessionChecker:   stubSessionChecker{ok: false},
		DirectoryService: stubDirectory{},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRolePicker))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session got %d", resp.Code)
	}
}

func TestUsersGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	svc := stubDirectory{list: []memberships.CompanyUserDTO{
		{MembershipID: uuid.New(), UserID: uuid.New(), Email: "a@crewdeck.io", Role: enums.MemberRolePicker},
	}}
	router := newTestRouter(cfg, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRolePicker))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token got %d", resp.Code)
	}

	var envelope struct {
		Data []memberships.CompanyUserDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestUserRoutesReachableThroughRouter(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubDirectory{})
	token := buildToken(t, cfg, enums.MemberRoleOwner)

	targets := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/users/me", http.StatusOK},
		{http.MethodGet, "/api/v1/users/" + uuid.NewString(), http.StatusOK},
		{http.MethodDelete, "/api/v1/users/" + uuid.NewString(), http.StatusNoContent},
		{http.MethodGet, "/api/v1/users/" + uuid.NewString() + "/refresh-tokens", http.StatusOK},
	}
	for _, target := range targets {
		req := httptest.NewRequest(target.method, target.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != target.want {
			t.Fatalf("%s %s: expected %d got %d", target.method, target.path, target.want, resp.Code)
		}
	}
}
