package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"csa_sim_backend/internal/config"
	"csa_sim_backend/internal/controller"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/service"
	"csa_sim_backend/pkg/configwatcher"
	"csa_sim_backend/pkg/database"
	"csa_sim_backend/pkg/logger"
	"csa_sim_backend/pkg/monitoring"
	"csa_sim_backend/pkg/security"
	"csa_sim_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	scheme      *repository.SchemeRepository
	question    *repository.QuestionRepository
	attempt     *repository.AttemptRepository
	improvement *repository.ImprovementRepository
	prompt      *repository.PromptRepository
	system      *repository.SystemRepository
	faq         *repository.FAQRepository
	feedback    *repository.ManualFeedbackRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	scheme      *service.SchemeService
	question    *service.QuestionService
	attempt     *service.AttemptService
	improvement *service.ImprovementService
	grading     *service.GradingService
	retriever   *service.RetrieverService
	prompt      *service.PromptService
	system      *service.SystemService
	storage     *service.StorageService
	ai          *service.AIService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	scheme      *controller.SchemeController
	question    *controller.QuestionController
	attempt     *controller.AttemptController
	improvement *controller.ImprovementController
	prompt      *controller.PromptController
	system      *controller.SystemController
	dataset     *controller.DatasetController
	image       *controller.ImageController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		scheme:      repository.NewSchemeRepository(db),
		question:    repository.NewQuestionRepository(db),
		attempt:     repository.NewAttemptRepository(db),
		improvement: repository.NewImprovementRepository(db),
		prompt:      repository.NewPromptRepository(db),
		system:      repository.NewSystemRepository(db),
		faq:         repository.NewFAQRepository(db),
		feedback:    repository.NewManualFeedbackRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)

	s.ai = service.NewAIService(cfg.AI)
	s.retriever = service.NewRetrieverService(repos.faq, rdb, cfg.Retriever)
	if err := s.retriever.Load(); err != nil {
		logger.Log.Warn("failed to load retrieval corpus", zap.Error(err))
	}

	s.grading = service.NewGradingService(s.ai, s.retriever, repos.prompt, cfg.Retriever.TopK)
	s.improvement = service.NewImprovementService(s.ai, repos.improvement)

	s.scheme = service.NewSchemeService(repos.scheme, repos.question)
	s.question = service.NewQuestionService(repos.question, s.scheme)
	s.attempt = service.NewAttemptService(repos.attempt, repos.question, repos.scheme, repos.feedback, s.grading, s.improvement)
	s.user = service.NewUserService(repos.user, repos.scheme, repos.attempt)
	s.prompt = service.NewPromptService(repos.prompt)
	s.system = service.NewSystemService(repos.system)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user, s.attempt),
		scheme:      controller.NewSchemeController(s.scheme),
		question:    controller.NewQuestionController(s.question, s.attempt),
		attempt:     controller.NewAttemptController(s.attempt),
		improvement: controller.NewImprovementController(s.improvement),
		prompt:      controller.NewPromptController(s.prompt),
		system:      controller.NewSystemController(s.system),
		dataset:     controller.NewDatasetController(s.question, s.retriever),
		image:       controller.NewImageController(s.storage, s.scheme),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests == 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window == 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.SeedDefaults(db, &cfg.Admin); err != nil {
		logger.Log.Fatal("Failed to seed default records", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, retrieval cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("csa-training-simulator", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 配置热更新：文件变更后通知已注册的回调
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("Config reloaded")
		app.Config = newCfg
		for _, callback := range app.configCallbacks {
			callback(newCfg)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
