package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"adoption-center-backend/internal/config"
	infraCache "adoption-center-backend/internal/infrastructure/cache"
	"adoption-center-backend/internal/infrastructure/database"
	"adoption-center-backend/internal/infrastructure/storage"
	"adoption-center-backend/pkg/cache"
	"adoption-center-backend/pkg/jwt"
	"adoption-center-backend/pkg/retry"

	adoptionRepo "adoption-center-backend/internal/domains/adoption/repository"
	adoptionService "adoption-center-backend/internal/domains/adoption/service"
	animalHandler "adoption-center-backend/internal/domains/animal/handler"
	animalRepo "adoption-center-backend/internal/domains/animal/repository"
	animalService "adoption-center-backend/internal/domains/animal/service"
	shelterHandler "adoption-center-backend/internal/domains/shelter/handler"
	shelterService "adoption-center-backend/internal/domains/shelter/service"
	"adoption-center-backend/internal/domains/user"
	userHandler "adoption-center-backend/internal/domains/user/handler"
	userRepo "adoption-center-backend/internal/domains/user/repository"
	userService "adoption-center-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependency graph của application.
// Thứ tự initialization: Config → Infrastructure → Repositories →
// Services → Handlers. Sai thứ tự → nil pointer.
type Container struct {
	// Infrastructure - singleton, shared across domains
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	Processor  *storage.ImageProcessor
	JWTManager *jwt.Manager
	TaskClient *asynq.Client

	// Repositories
	AnimalRepo   animalRepo.Repository
	AdoptionRepo adoptionRepo.Repository
	UserRepo     user.Repository

	// Services
	AnimalService   animalService.Service
	PhotoPipeline   animalService.PhotoPipeline
	AdoptionService adoptionService.Service
	Coordinator     shelterService.Coordinator
	UserService     user.Service

	// Handlers
	AnimalHandler  *animalHandler.Handler
	ShelterHandler *shelterHandler.Handler
	UserHandler    *userHandler.Handler
}

// Options điều chỉnh container theo process: API cần handlers,
// worker chỉ cần services + pipeline.
type Options struct {
	WithHandlers   bool
	WithTaskClient bool
}

// ========================================
// CONSTRUCTOR
// ========================================

func NewContainer(opts Options) (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Cache down không chặn startup - mọi read đều có DB fallback
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: MEDIA STORAGE
	// ========================================
	log.Println("🖼️  Connecting to MinIO...")

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init media storage: %w", err)
	}
	c.Storage = minioStorage
	c.Processor = storage.NewImageProcessor()
	log.Println("✅ MinIO connected")

	// ========================================
	// STEP 5: AUXILIARY CLIENTS
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	if opts.WithTaskClient {
		c.TaskClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Println("✅ Task queue client ready")
	}

	// ========================================
	// STEP 6: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	if opts.WithHandlers {
		log.Println("🎯 Initializing handlers...")
		c.initHandlers()
		log.Println("✅ Handlers initialized")
	}

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AnimalRepo = animalRepo.NewPostgresRepository(pool, c.Cache)
	c.AdoptionRepo = adoptionRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	policy := retry.Policy{
		MaxAttempts: c.Config.Retry.MaxAttempts,
		BaseDelay:   c.Config.Retry.BaseDelay,
		MaxDelay:    c.Config.Retry.MaxDelay,
		Jitter:      true,
	}

	c.AnimalService = animalService.NewAnimalService(
		c.AnimalRepo,
		c.Storage,
		c.Processor,
		c.TaskClient,
		policy,
	)

	c.PhotoPipeline = animalService.NewPhotoPipeline(c.AnimalRepo, c.Storage, c.Processor)

	c.AdoptionService = adoptionService.NewAdoptionService(c.AdoptionRepo, c.TaskClient, policy)

	c.Coordinator = shelterService.NewCoordinator(c.AnimalService, c.AdoptionService)

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
}

func (c *Container) initHandlers() {
	c.AnimalHandler = animalHandler.NewHandler(c.AnimalService)
	c.ShelterHandler = shelterHandler.NewHandler(c.Coordinator)
	c.UserHandler = userHandler.NewHandler(c.UserService)
}

// ========================================
// PROJECTIONS
// ========================================

// StartProjections chạy các projection loop (catalog + requests).
// Blocking per-loop nên chạy trong goroutines; dừng khi ctx cancel.
func (c *Container) StartProjections(ctx context.Context) {
	go c.AnimalService.Start(ctx)
	go c.AdoptionService.Start(ctx)
	log.Println("📡 Snapshot projections started")
}

// ========================================
// CLEANUP
// ========================================

func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.TaskClient != nil {
		if err := c.TaskClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close task client: %v", err)
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
