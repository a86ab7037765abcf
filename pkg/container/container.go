package container

import (
	"context"
	"fmt"
	"time"

	"foodgram-backend/internal/config"
	infraCache "foodgram-backend/internal/infrastructure/cache"
	"foodgram-backend/internal/infrastructure/database"
	"foodgram-backend/internal/infrastructure/storage"
	"foodgram-backend/internal/shared/middleware"
	"foodgram-backend/pkg/cache"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/logger"

	followHandler "foodgram-backend/internal/domains/follow/handler"
	followRepo "foodgram-backend/internal/domains/follow/repository"
	followService "foodgram-backend/internal/domains/follow/service"
	ingredientHandler "foodgram-backend/internal/domains/ingredient/handler"
	ingredientRepo "foodgram-backend/internal/domains/ingredient/repository"
	ingredientService "foodgram-backend/internal/domains/ingredient/service"
	recipeHandler "foodgram-backend/internal/domains/recipe/handler"
	recipeRepo "foodgram-backend/internal/domains/recipe/repository"
	recipeService "foodgram-backend/internal/domains/recipe/service"
	tagHandler "foodgram-backend/internal/domains/tag/handler"
	tagRepo "foodgram-backend/internal/domains/tag/repository"
	tagService "foodgram-backend/internal/domains/tag/service"
	userHandler "foodgram-backend/internal/domains/user/handler"
	userRepo "foodgram-backend/internal/domains/user/repository"
	userService "foodgram-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Thứ tự khởi tạo: Config → Infrastructure → Repositories → Services → Handlers
type Container struct {
	// INFRASTRUCTURE LAYER
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	JWTManager *jwt.Manager
	Auth       *middleware.Authenticator

	// REPOSITORY LAYER
	UserRepo       userRepo.UserRepository
	TagRepo        tagRepo.TagRepository
	IngredientRepo ingredientRepo.IngredientRepository
	RecipeRepo     recipeRepo.RecipeRepository
	FollowRepo     followRepo.FollowRepository

	// SERVICE LAYER
	UserService       userService.ServiceInterface
	TagService        tagService.ServiceInterface
	IngredientService ingredientService.ServiceInterface
	RecipeService     recipeService.ServiceInterface
	FollowService     followService.ServiceInterface

	// HANDLER LAYER
	UserHandler       *userHandler.UserHandler
	TagHandler        *tagHandler.TagHandler
	IngredientHandler *ingredientHandler.IngredientHandler
	RecipeHandler     *recipeHandler.RecipeHandler
	FollowHandler     *followHandler.FollowHandler
}

// NewContainer tạo và initialize toàn bộ dependency graph
// Nếu thứ tự sai → panic (nil pointer dereference)
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)
	logger.Info("config loaded", map[string]interface{}{"env": cfg.App.Environment})

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initCache()
	if err := c.initStorage(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	// ========================================
	// STEP 3-5: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	// Auth middleware cần UserService để check revoked token
	c.Auth = middleware.NewAuthenticator(c.JWTManager, c.UserService)

	logger.Info("DI container initialized", nil)
	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := OpenDatabase(context.Background())
	if err != nil {
		return err
	}
	c.DB = db
	return nil
}

// OpenDatabase kết nối Postgres theo DB_* env; dùng chung cho API và CLI
func OpenDatabase(ctx context.Context) (*database.PostgresDB, error) {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	return db, nil
}

func (c *Container) initCache() {
	c.Cache = OpenCache(context.Background(), c.Config.Redis)
}

// OpenCache - Redis failure không critical: fallback sang in-memory cache
func OpenCache(ctx context.Context, cfg config.RedisConfig) cache.Cache {
	redisCache := infraCache.NewRedisCache(cfg.Host, cfg.Password, cfg.DB)

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(connectCtx); err != nil {
			logger.Warn("redis connection failed, using in-memory cache", map[string]interface{}{"error": err.Error()})
			_ = rc.Close()
			return cache.NewMemoryCache()
		}
	}
	return redisCache
}

func (c *Container) initStorage() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = s
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.TagRepo = tagRepo.NewPostgresRepository(pool)
	c.IngredientRepo = ingredientRepo.NewPostgresRepository(pool)
	c.RecipeRepo = recipeRepo.NewPostgresRepository(pool)
	c.FollowRepo = followRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	ttl := c.Config.API.CacheTTL

	// FollowRepo trả lời is_subscribed cho user và recipe projection
	c.UserService = userService.NewUserService(c.UserRepo, c.FollowRepo, c.JWTManager, c.Cache)
	c.TagService = tagService.NewTagService(c.TagRepo, c.Cache, ttl)
	c.IngredientService = ingredientService.NewIngredientService(c.IngredientRepo, c.Cache, ttl)
	c.RecipeService = recipeService.NewRecipeService(c.RecipeRepo, c.FollowRepo, c.Storage)
	c.FollowService = followService.NewFollowService(c.FollowRepo, c.UserRepo, c.RecipeRepo)
}

func (c *Container) initHandlers() {
	pageSize, maxPageSize := c.Config.API.PageSize, c.Config.API.MaxPageSize

	c.UserHandler = userHandler.NewUserHandler(c.UserService, pageSize, maxPageSize)
	c.TagHandler = tagHandler.NewTagHandler(c.TagService)
	c.IngredientHandler = ingredientHandler.NewIngredientHandler(c.IngredientService)
	c.RecipeHandler = recipeHandler.NewRecipeHandler(c.RecipeService, pageSize, maxPageSize)
	c.FollowHandler = followHandler.NewFollowHandler(c.FollowService, pageSize, maxPageSize)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	logger.Info("container cleanup completed", nil)
}
