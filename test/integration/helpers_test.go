package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-admin-service/internal/database"
	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/http/handler"
	"todo-admin-service/internal/http/router"
	"todo-admin-service/internal/repository"
	"todo-admin-service/internal/security"
	"todo-admin-service/internal/service"
)

const (
	adminEmail    = "admin@example.com"
	memberEmail   = "member@example.com"
	testPassword  = "secret-password"
	testJWTSecret = "integration-test-secret-0123456789abcdef"
)

var dbCounter atomic.Int64

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type testEnv struct {
	baseURL string
	client  *http.Client
	db      *gorm.DB
}

// newTestEnv builds the full route tree over an in-memory sqlite database,
// seeds the permission catalog, and creates two accounts: a super-admin
// (adminEmail) and a member holding only the "user" role (memberEmail).
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:integration%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepository(db)
	createUser(t, users, "Admin", adminEmail)
	member := createUser(t, users, "Member", memberEmail)

	if _, err := database.SeedSync(db, adminEmail); err != nil {
		t.Fatalf("seed: %v", err)
	}

	roles := repository.NewRoleRepository(db)
	userRole, err := roles.FindByName("user")
	if err != nil {
		t.Fatalf("find user role: %v", err)
	}
	if err := users.SetRoles(member.ID, []uint{userRole.ID}); err != nil {
		t.Fatalf("assign user role: %v", err)
	}

	todos := repository.NewTodoRepository(db)
	perms := repository.NewPermissionRepository(db)
	paginator := repository.NewPaginator(repository.DefaultAllowedPageSizes, repository.DefaultPageSize)

	tokens := security.NewJWTManager("todo-admin-test", testJWTSecret)
	cache := service.NewInMemoryPermissionCacheStore()
	authSvc := service.NewAuthService(users, tokens, cache, 15*time.Minute, 5*time.Minute)

	deps := router.Dependencies{
		Auth:          handler.NewAuthHandler(authSvc),
		Todos:         handler.NewTodoHandler(service.NewTodoService(todos), paginator),
		Users:         handler.NewUserHandler(service.NewUserService(users, cache), paginator),
		Roles:         handler.NewRoleHandler(service.NewRoleService(roles, perms, cache), paginator),
		Permissions:   handler.NewPermissionHandler(service.NewPermissionService(perms), paginator),
		Authenticator: authSvc,
	}
	srv := httptest.NewServer(router.New(deps))
	t.Cleanup(srv.Close)

	return &testEnv{baseURL: srv.URL, client: srv.Client(), db: db}
}

func createUser(t *testing.T, users repository.UserRepository, name, email string) *domain.User {
	t.Helper()
	hash, err := security.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if err := users.Create(u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// login authenticates through the API and returns the bearer token.
func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	resp, env := e.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": testPassword,
	}, "")
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("login %s: status=%d error=%+v", email, resp.StatusCode, env.Error)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login payload: %v", err)
	}
	if data.Token == "" {
		t.Fatal("login returned empty token")
	}
	return data.Token
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any, token string) (*http.Response, apiEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.baseURL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope for %s %s: %v", method, path, err)
	}
	return resp, env
}

func itoaPath(prefix string, id uint) string {
	return fmt.Sprintf("%s%d", prefix, id)
}

func decodeData(t *testing.T, env apiEnvelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}
