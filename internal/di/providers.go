package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"todo-admin-service/internal/app"
	"todo-admin-service/internal/config"
	"todo-admin-service/internal/database"
	"todo-admin-service/internal/http/handler"
	"todo-admin-service/internal/http/middleware"
	"todo-admin-service/internal/http/router"
	"todo-admin-service/internal/observability"
	"todo-admin-service/internal/repository"
	"todo-admin-service/internal/security"
	"todo-admin-service/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(provideLogger, provideRuntime)

var RuntimeInfraSet = wire.NewSet(provideOpenDB, provideRedisClient)

var RepositorySet = wire.NewSet(
	providePaginator,
	repository.NewTodoRepository,
	repository.NewUserRepository,
	repository.NewRoleRepository,
	repository.NewPermissionRepository,
)

var SecuritySet = wire.NewSet(provideJWTManager)

var ServiceSet = wire.NewSet(
	providePermissionCacheStore,
	provideAuthService,
	service.NewTodoService,
	service.NewUserService,
	service.NewRoleService,
	service.NewPermissionService,
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewTodoHandler,
	handler.NewUserHandler,
	handler.NewRoleHandler,
	handler.NewPermissionHandler,
	provideRateLimiter,
	provideRouterDependencies,
	router.New,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(cfg.Env, cfg.LogLevel)
}

func provideRuntime(cfg *config.Config, logger *slog.Logger) (*observability.Runtime, error) {
	return observability.InitRuntime(context.Background(), cfg, logger)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

// provideRedisClient returns nil when no redis address is configured; the
// dependents fall back to their local implementations.
func provideRedisClient(cfg *config.Config) redis.UniversalClient {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

func providePaginator(cfg *config.Config) repository.Paginator {
	return repository.NewPaginator(cfg.PaginationAllowedSizes, cfg.PaginationDefaultSize)
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTSecret)
}

func providePermissionCacheStore(cfg *config.Config, client redis.UniversalClient) service.PermissionCacheStore {
	if client != nil {
		return service.NewRedisPermissionCacheStore(client, "permission_cache")
	}
	return service.NewInMemoryPermissionCacheStore()
}

func provideAuthService(users repository.UserRepository, tokens *security.JWTManager, cache service.PermissionCacheStore, cfg *config.Config) *service.AuthService {
	return service.NewAuthService(users, tokens, cache, cfg.JWTTTL, cfg.PermissionCacheTTL)
}

// provideRateLimiter keys the API limit by authenticated subject, falling
// back to client IP. A redis backend runs fail-open so a cache outage does
// not take the API down with it.
func provideRateLimiter(cfg *config.Config, client redis.UniversalClient, jwtMgr *security.JWTManager) *middleware.RateLimiter {
	keyFunc := middleware.SubjectOrIPKeyFunc(jwtMgr)
	if client != nil {
		return middleware.NewDistributedRateLimiterWithKey(
			middleware.NewRedisFixedWindowLimiter(client, "rl"),
			cfg.APIRateLimitPerMin,
			time.Minute,
			middleware.FailOpen,
			"api",
			keyFunc,
		)
	}
	return middleware.NewRateLimiterWithKey(cfg.APIRateLimitPerMin, time.Minute, keyFunc)
}

func provideRouterDependencies(
	auth *handler.AuthHandler,
	todos *handler.TodoHandler,
	users *handler.UserHandler,
	roles *handler.RoleHandler,
	perms *handler.PermissionHandler,
	authSvc *service.AuthService,
	limiter *middleware.RateLimiter,
) router.Dependencies {
	return router.Dependencies{
		Auth:          auth,
		Todos:         todos,
		Users:         users,
		Roles:         roles,
		Permissions:   perms,
		Authenticator: authSvc,
		RateLimiter:   limiter,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// MigrationRunner applies schema migrations and the permission seed in one
// step, for the migrate entrypoint and CI.
type MigrationRunner struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewMigrationRunner(cfg *config.Config, db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{cfg: cfg, db: db}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return err
	}
	_, err := database.SeedSync(m.db, m.cfg.BootstrapAdminEmail)
	return err
}
