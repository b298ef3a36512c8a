package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/si-mbkm/mbkm-api/api/swagger"
	"github.com/si-mbkm/mbkm-api/internal/handler"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/internal/repository"
	"github.com/si-mbkm/mbkm-api/internal/router"
	"github.com/si-mbkm/mbkm-api/internal/service"
	"github.com/si-mbkm/mbkm-api/pkg/cache"
	"github.com/si-mbkm/mbkm-api/pkg/config"
	"github.com/si-mbkm/mbkm-api/pkg/database"
	"github.com/si-mbkm/mbkm-api/pkg/jobs"
	"github.com/si-mbkm/mbkm-api/pkg/logger"
	"github.com/si-mbkm/mbkm-api/pkg/storage"
)

// @title SI-MBKM API
// @version 1.0.0
// @description Administration backend for the MBKM off-campus learning programme
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.SyncSchema {
		if err := database.Sync(ctx, db, logr); err != nil {
			return fmt.Errorf("sync schema: %w", err)
		}
	}

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalogue cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	store, uploadsDir, err := newStore(cfg.Storage)
	if err != nil {
		return err
	}
	checker := storage.NewValidator(cfg.Upload.MaxFileSizeBytes, cfg.Upload.AllowedMIMEs)

	queue := jobs.NewQueue("storage", jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	queue.Handle(service.JobDeleteObject, service.NewObjectCleanupHandler(store, logr))
	queueCtx, stopQueue := context.WithCancel(ctx)
	defer stopQueue()
	queue.Start(queueCtx)

	handlers := buildHandlers(cfg, db, logr, metrics, cacheSvc, store, checker, queue)

	authSvc := service.NewAuthService(repository.NewUserRepository(db), validator.New(), logr, service.AuthConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		LoginExpiry:    cfg.JWT.LoginExpiration,
		RegisterExpiry: cfg.JWT.RegisterExpiration,
	})
	handlers.Auth = handler.NewAuthHandler(authSvc)

	engine := router.New(router.Options{
		Env:            cfg.Env,
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		UploadsDir:     uploadsDir,
	}, handlers, authSvc, metrics, logr)
	engine.MaxMultipartMemory = cfg.Upload.MaxFileSizeBytes

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("storage", cfg.Storage.Driver))
		serverErrors <- srv.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	case sig := <-signals:
		logr.Info("shutdown requested", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http shutdown failed", zap.Error(err))
	}
	queue.Stop()
	logr.Info("server stopped")
	return nil
}

func newStore(cfg config.StorageConfig) (storage.Store, string, error) {
	if cfg.Driver == config.StorageDriverOSS {
		store, err := storage.NewOSSStore(cfg.OSS)
		if err != nil {
			return nil, "", fmt.Errorf("init oss storage: %w", err)
		}
		return store, "", nil
	}
	store, err := storage.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("init local storage: %w", err)
	}
	return store, store.Dir(), nil
}

func buildHandlers(cfg *config.Config, db *sqlx.DB, logr *zap.Logger, metrics *service.MetricsService, cacheSvc *service.CacheService, store storage.Store, checker *storage.Validator, queue *jobs.Queue) router.Handlers {
	validate := validator.New()

	refs := repository.NewReferenceRepository(db)
	fileRepo := repository.NewFileRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db, metrics)

	registrationSvc := service.NewRegistrationService(registrationRepo, refs, validate, logr)
	fileSvc := service.NewFileService(fileRepo, refs, store, checker, queue, metrics, validate, logr,
		service.UploadConfig{Folder: path.Join(cfg.Storage.Folder, "berkas")})
	logbookSvc := service.NewLogbookService(repository.NewLogbookRepository(db), refs, store, checker, queue, metrics, validate, logr,
		service.UploadConfig{Folder: path.Join(cfg.Storage.Folder, "logbook")})

	return router.Handlers{
		Students:      handler.NewStudentHandler(service.NewStudentService(repository.NewStudentRepository(db, metrics), refs, queue, validate, logr)),
		Supervisors:   handler.NewStaffHandler(service.NewStaffService(repository.NewStaffRepository(db, models.KindSupervisor), validate, logr)),
		Coordinators:  handler.NewStaffHandler(service.NewStaffService(repository.NewStaffRepository(db, models.KindCoordinator), validate, logr)),
		AdminStaff:    handler.NewStaffHandler(service.NewStaffService(repository.NewStaffRepository(db, models.KindAdminStaff), validate, logr)),
		Programs:      handler.NewProgramHandler(service.NewProgramService(repository.NewProgramRepository(db), cacheSvc, validate, logr)),
		Courses:       handler.NewCourseHandler(service.NewCourseService(repository.NewCourseRepository(db), cacheSvc, validate, logr)),
		Registrations: handler.NewRegistrationHandler(registrationSvc),
		Files:         handler.NewFileHandler(fileSvc),
		Grades:        handler.NewGradeConversionHandler(service.NewGradeConversionService(repository.NewGradeConversionRepository(db), fileRepo, refs, validate, logr)),
		Logbooks:      handler.NewLogbookHandler(logbookSvc),
		Reports:       handler.NewReportHandler(service.NewExportService(registrationSvc, logr)),
		Metrics:       handler.NewMetricsHandler(metrics, db),
	}
}
