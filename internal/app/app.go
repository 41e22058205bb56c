package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"werise_backend/internal/config"
	"werise_backend/internal/controller"
	"werise_backend/internal/repository"
	"werise_backend/internal/service"
	"werise_backend/internal/util"
	"werise_backend/pkg/configwatcher"
	"werise_backend/pkg/database"
	"werise_backend/pkg/logger"
	"werise_backend/pkg/monitoring"
	"werise_backend/pkg/security"
	"werise_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Store           repository.Store
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	stopWatcher     context.CancelFunc
}

type repositories struct {
	store        repository.Store
	session      *repository.SessionRepository
	user         *repository.UserRepository
	course       *repository.CourseRepository
	question     *repository.QuestionRepository
	mentor       *repository.MentorRepository
	assignment   *repository.AssignmentRepository
	learningPath *repository.LearningPathRepository
	notification *repository.NotificationRepository
}

type services struct {
	ai           *service.AIService
	gateway      service.CompletionGateway
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	course       *service.CourseService
	question     *service.QuestionService
	learningPath *service.LearningPathService
	mentor       *service.MentorService
	dashboard    *service.DashboardService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	dashboard    *controller.DashboardController
	course       *controller.CourseController
	learningPath *controller.LearningPathController
	mentor       *controller.MentorController
	question     *controller.QuestionController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(store repository.Store) *repositories {
	return &repositories{
		store:        store,
		session:      repository.NewSessionRepository(store),
		user:         repository.NewUserRepository(store),
		course:       repository.NewCourseRepository(store),
		question:     repository.NewQuestionRepository(store),
		mentor:       repository.NewMentorRepository(store),
		assignment:   repository.NewAssignmentRepository(store),
		learningPath: repository.NewLearningPathRepository(store),
		notification: repository.NewNotificationRepository(store),
	}
}

// initServices gateway 为空时按配置创建补全服务
func (a *App) initServices(repos *repositories, cfg *config.Config, gateway service.CompletionGateway) (*services, error) {
	s := &services{}

	if gateway == nil {
		ai, err := service.NewAIService(cfg.AI)
		if err != nil {
			return nil, err
		}
		s.ai = ai
		gateway = ai
	}
	s.gateway = gateway

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.session, repos.learningPath, cfg)
	s.user = service.NewUserService(repos.session, repos.store)
	s.course = service.NewCourseService(repos.course)
	s.question = service.NewQuestionService(repos.question, gateway)
	s.learningPath = service.NewLearningPathService(repos.session, repos.learningPath, repos.course, repos.notification, gateway)
	s.mentor = service.NewMentorService(
		repos.mentor,
		repos.assignment,
		repos.learningPath,
		repos.session,
		repos.course,
		repos.notification,
		s.learningPath,
		s.storage,
		gateway,
	)
	s.dashboard = service.NewDashboardService(
		repos.session,
		repos.notification,
		repos.user,
		repos.course,
		repos.question,
		repos.mentor,
		repos.assignment,
		repos.learningPath,
	)
	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		dashboard:    controller.NewDashboardController(s.dashboard),
		course:       controller.NewCourseController(s.course),
		learningPath: controller.NewLearningPathController(s.learningPath),
		mentor:       controller.NewMentorController(s.mentor),
		question:     controller.NewQuestionController(s.question),
		health:       controller.NewHealthController(a.Store, a.Config.Store.Driver),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// openStore 按 store.driver 选择键值存储后端，外层统一加设备命名空间
func (a *App) openStore(cfg *config.Config) (repository.Store, error) {
	var inner repository.Store
	switch cfg.Store.Driver {
	case util.StoreMemory:
		inner = repository.NewMemoryStore()
	case util.StoreSQLite, util.StoreMySQL:
		db, err := database.InitDB(cfg.Store.Driver, &cfg.Database, cfg.Store.SQLitePath, cfg.Server.Mode == "debug")
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		a.DB = db
		inner = repository.NewGormStore(db)
	case util.StoreRedis:
		rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.Redis = rdb
		inner = repository.NewRedisStore(rdb, cfg.Store.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	return repository.NewNamespacedStore(inner), nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	app := &App{Config: cfg}
	store, err := app.openStore(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize store", zap.Error(err))
		log.Fatalf("Failed to initialize store: %v", err)
	}
	logger.Log.Info("Store initialized", zap.String("driver", cfg.Store.Driver))

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if err := app.assemble(store, nil); err != nil {
		logger.Log.Fatal("Failed to assemble application", zap.Error(err))
		log.Fatalf("Failed to assemble application: %v", err)
	}

	if cfg.Storage.Type == util.StorageLocal {
		app.Router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// assemble 组装仓储、服务、控制器和路由；gateway 为空时使用配置中的补全服务
func (a *App) assemble(store repository.Store, gateway service.CompletionGateway) error {
	a.Store = store

	repos := a.initRepositories(store)
	services, err := a.initServices(repos, a.Config, gateway)
	if err != nil {
		return err
	}
	a.services = services
	controllers := a.initControllers(services)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if a.Config.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	a.Router = router

	a.setupMiddlewares(router, a.Config)
	a.registerRoutes(router, controllers)

	a.RegisterConfigCallback(func(cfg *config.Config) {
		services.auth.SetSystemAccount(service.NewSystemAccount(cfg.Auth.SystemAccount))
		logger.Log.Info("System account settings reloaded", zap.Bool("enabled", cfg.Auth.SystemAccount.Enabled))
	})
	if services.ai != nil {
		a.RegisterConfigCallback(func(cfg *config.Config) {
			if err := services.ai.Reload(cfg.AI); err != nil {
				logger.Log.Error("Failed to reload AI settings", zap.Error(err))
			}
		})
	}
	return nil
}

// WatchConfig 配置文件变更后依次执行已注册的回调
func (a *App) WatchConfig(configDir string) error {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatcher = cancel
	return configwatcher.WatchConfig(ctx, configDir, func(cfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(cfg)
		}
	})
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.stopWatcher != nil {
		a.stopWatcher()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	a.close(ctx)
	logger.Log.Info("Server exiting")
}

func (a *App) close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
