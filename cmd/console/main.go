package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	admin_app "github.com/fangzhou-tech/flipops/internal/admin/application"
	admin_domain "github.com/fangzhou-tech/flipops/internal/admin/domain"
	admin_mysql "github.com/fangzhou-tech/flipops/internal/admin/infrastructure/persistence/mysql"
	admin_http "github.com/fangzhou-tech/flipops/internal/admin/interfaces/http"
	insight_static "github.com/fangzhou-tech/flipops/internal/insight/infrastructure/static"
	insight_http "github.com/fangzhou-tech/flipops/internal/insight/interfaces/http"
	lead_app "github.com/fangzhou-tech/flipops/internal/lead/application"
	lead_domain "github.com/fangzhou-tech/flipops/internal/lead/domain"
	lead_messaging "github.com/fangzhou-tech/flipops/internal/lead/infrastructure/messaging"
	lead_mysql "github.com/fangzhou-tech/flipops/internal/lead/infrastructure/persistence/mysql"
	lead_http "github.com/fangzhou-tech/flipops/internal/lead/interfaces/http"
	project_app "github.com/fangzhou-tech/flipops/internal/project/application"
	project_domain "github.com/fangzhou-tech/flipops/internal/project/domain"
	project_cache "github.com/fangzhou-tech/flipops/internal/project/infrastructure/cache"
	project_draft "github.com/fangzhou-tech/flipops/internal/project/infrastructure/draft"
	project_messaging "github.com/fangzhou-tech/flipops/internal/project/infrastructure/messaging"
	project_mysql "github.com/fangzhou-tech/flipops/internal/project/infrastructure/persistence/mysql"
	project_http "github.com/fangzhou-tech/flipops/internal/project/interfaces/http"
	storage_s3 "github.com/fangzhou-tech/flipops/internal/storage/infrastructure/s3"
	storage_http "github.com/fangzhou-tech/flipops/internal/storage/interfaces/http"
	"github.com/fangzhou-tech/flipops/pkg/cache"
	"github.com/fangzhou-tech/flipops/pkg/config"
	"github.com/fangzhou-tech/flipops/pkg/db"
	"github.com/fangzhou-tech/flipops/pkg/logger"
	"github.com/fangzhou-tech/flipops/pkg/metrics"
	"github.com/fangzhou-tech/flipops/pkg/middleware"
	"github.com/fangzhou-tech/flipops/pkg/mq"
	"github.com/fangzhou-tech/flipops/pkg/ratelimit"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/console/config.toml", "path to config file")
	flag.Parse()

	// 1. Config
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}

	// 2. Logger
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
	}); err != nil {
		panic(fmt.Sprintf("init logger failed: %v", err))
	}
	ctx := context.Background()
	logger.Info(ctx, "starting flipops console", "service", cfg.ServiceName)

	// 3. Database
	gormDB, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "connect database failed", "error", err)
	}
	if err := gormDB.AutoMigrate(
		&admin_domain.User{},
		&admin_domain.Role{},
		&lead_domain.Lead{},
		&lead_domain.FollowUp{},
		&lead_domain.StatusHistory{},
		&project_domain.Project{},
		&project_domain.Attachment{},
		&project_domain.RenovationPhoto{},
		&project_domain.SalesRecord{},
		&project_domain.StatusHistory{},
	); err != nil {
		logger.Fatal(ctx, "migrate database failed", "error", err)
	}

	// 4. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "connect redis failed", "error", err)
	}
	defer redisCache.Close()

	// 5. Kafka（可选，未配置 broker 时事件仅落日志）
	var producer *mq.KafkaProducer
	if len(cfg.Kafka.Brokers) > 0 {
		if producer, err = mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			GroupID:      cfg.Kafka.GroupID,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		}); err != nil {
			logger.Fatal(ctx, "init kafka producer failed", "error", err)
		}
		defer producer.Close()
	}

	// 6. Repositories
	userRepo := admin_mysql.NewUserRepository(gormDB)
	roleRepo := admin_mysql.NewRoleRepository(gormDB)
	leadRepo := lead_mysql.NewLeadRepository(gormDB)
	followUpRepo := lead_mysql.NewFollowUpRepository(gormDB)
	projectRepo := project_mysql.NewProjectRepository(gormDB)
	attachmentRepo := project_mysql.NewAttachmentRepository(gormDB)
	photoRepo := project_mysql.NewPhotoRepository(gormDB)
	salesRepo := project_mysql.NewSalesRecordRepository(gormDB)

	var leadPublisher lead_domain.EventPublisher
	var projectPublisher project_domain.EventPublisher
	if producer != nil {
		leadPublisher = lead_messaging.NewKafkaEventPublisher(producer)
		projectPublisher = project_messaging.NewKafkaEventPublisher(producer)
	}

	// 7. Application services
	jwtCfg := middleware.JWTConfig{
		Secret:      cfg.JWT.Secret,
		ExpireHours: cfg.JWT.ExpireHours,
		Issuer:      cfg.JWT.Issuer,
	}
	adminService := admin_app.NewAdminService(userRepo, roleRepo, jwtCfg)
	leadService := lead_app.NewLeadService(leadRepo, followUpRepo, leadPublisher)
	projectService := project_app.NewProjectService(
		projectRepo, attachmentRepo, photoRepo, salesRepo,
		projectPublisher,
		project_cache.NewRedisProjectCache(redisCache),
		project_draft.NewRedisDraftStore(redisCache.Client()),
	)

	// Seed SuperAdmin
	if err := adminService.SeedSuperAdmin(ctx, "admin", "admin123"); err != nil {
		logger.Fatal(ctx, "seed super admin failed", "error", err)
	}

	// 8. Metrics
	m := metrics.New(cfg.ServiceName)

	// 9. HTTP router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery(), middleware.Observe(m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	public := r.Group("/v1")
	public.Use(middleware.RateLimit(ratelimit.NewRedisLimiter(redisCache.Client()), ratelimit.PerMinute(10)))
	authed := r.Group("/v1")
	authed.Use(middleware.Auth(jwtCfg))

	admin_http.NewHandler(public, authed, adminService)
	lead_http.NewHandler(authed, leadService, m)
	project_http.NewHandler(authed, projectService, m)
	insight_http.NewHandler(authed, insight_static.NewProvider())

	if cfg.Storage.Bucket != "" {
		uploader, err := storage_s3.NewUploader(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal(ctx, "init s3 uploader failed", "error", err)
		}
		storage_http.NewHandler(authed, uploader, cfg.Storage.MaxFileSizeMB, m)
	}

	// 10. Cron jobs
	scanner := project_app.NewDeadlineScanner(projectRepo, projectPublisher, cfg.Jobs.DeadlineWarnDays)
	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc(cfg.Jobs.DeadlineScanCron, func() {
		if err := scanner.Scan(context.Background()); err != nil {
			logger.Error(context.Background(), "deadline scan failed", "error", err)
		}
	}); err != nil {
		logger.Fatal(ctx, "register deadline scan job failed", "error", err)
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	// 11. Start HTTP server
	httpSrv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
	go func() {
		logger.Info(ctx, "http server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "http server failed", "error", err)
		}
	}()

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "http server shutdown failed", "error", err)
	}
	logger.Info(ctx, "bye")
}
