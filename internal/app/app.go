package app

import (
	"classroom_backend/internal/config"
	"classroom_backend/internal/controller"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/service"
	"classroom_backend/pkg/database"
	"classroom_backend/pkg/logger"
	"classroom_backend/pkg/monitoring"
	"classroom_backend/pkg/security"
	"classroom_backend/pkg/tracing"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	lesson     *repository.LessonRepository
	enrollment *repository.EnrollmentRepository
	userLesson *repository.UserLessonRepository
}

type services struct {
	storage    *service.StorageService
	lesson     *service.LessonService
	classroom  *service.ClassroomService
	enrollment *service.EnrollmentService
}

type controllers struct {
	classroom *controller.ClassroomController
	course    *controller.CourseController
	lesson    *controller.LessonController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新时调用，依次通知注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		lesson:     repository.NewLessonRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		userLesson: repository.NewUserLessonRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	s.storage = storage

	// rdb 为 nil 时不能赋给接口，否则缓存判空失效
	var cache service.DefinitionCache
	if rdb != nil {
		cache = service.NewRedisDefinitionCache(rdb, cfg.Redis.DefinitionTTL())
	}
	s.lesson = service.NewLessonService(repos.lesson, repos.course, cache)
	s.classroom = service.NewClassroomService(s.lesson, repos.lesson, repos.userLesson, repos.enrollment)
	s.enrollment = service.NewEnrollmentService(repos.user, repos.course, repos.lesson, repos.enrollment, repos.userLesson, s.storage)

	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		classroom: controller.NewClassroomController(s.classroom),
		course:    controller.NewCourseController(s.enrollment),
		lesson:    controller.NewLessonController(s.lesson),
		health:    controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 用已经打开的数据库和 Redis 组装应用，rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	gin.SetMode(cfg.Server.Mode)

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		limiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()),
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		return nil, err
	}
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(c *config.Config) {
		logger.SetMode(c.Server.Mode)
	})
	app.RegisterConfigCallback(func(c *config.Config) {
		app.limiter.Update(c.RateLimit.MaxRequests, c.RateLimit.Window())
		logger.Log.Info("Rate limit updated",
			zap.Int("maxRequests", c.RateLimit.MaxRequests), zap.Duration("window", c.RateLimit.Window()))
	})

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app, err := New(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	a.limiter.StartCleanup(time.Minute)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.limiter.Stop()
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
