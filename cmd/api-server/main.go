package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/siaochanwu/appointment-api/api/swagger"
	"github.com/siaochanwu/appointment-api/internal/handler"
	"github.com/siaochanwu/appointment-api/internal/middleware"
	"github.com/siaochanwu/appointment-api/internal/repository"
	"github.com/siaochanwu/appointment-api/internal/service"
	"github.com/siaochanwu/appointment-api/pkg/cache"
	"github.com/siaochanwu/appointment-api/pkg/config"
	"github.com/siaochanwu/appointment-api/pkg/database"
	"github.com/siaochanwu/appointment-api/pkg/jobs"
	"github.com/siaochanwu/appointment-api/pkg/logger"
	corsmiddleware "github.com/siaochanwu/appointment-api/pkg/middleware/cors"
	reqidmiddleware "github.com/siaochanwu/appointment-api/pkg/middleware/requestid"
	"github.com/siaochanwu/appointment-api/pkg/storage"
)

// @title Clinic Appointment API
// @version 1.0.0
// @description Clinic staff, schedule and appointment booking backend
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRoleRepo := repository.NewUserRoleRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	itemRepo := repository.NewItemRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	var referenceCache *service.InstrumentedCache
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		referenceCache = service.NewInstrumentedCache(cacheRepo, metricsSvc)
	}

	userSvc := service.NewUserService(userRepo, validate, logr)
	roleSvc := service.NewRoleService(roleRepo, validate, logr)
	userRoleSvc := service.NewUserRoleService(userRoleRepo, userRepo, roleRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, referenceCache, cfg.Cache.TTL, validate, logr)
	itemSvc := service.NewItemService(itemRepo, referenceCache, cfg.Cache.TTL, validate, logr)
	memberSvc := service.NewMemberService(memberRepo, userRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, userRepo, roomRepo, appointmentRepo, validate, logr, service.ScheduleServiceConfig{
		ValidateOnUpdate:       cfg.Booking.ValidateOnUpdate,
		DefaultIntervalMinutes: cfg.Booking.DefaultIntervalMinutes,
	})
	appointmentSvc := service.NewAppointmentService(appointmentRepo, userRepo, roomRepo, memberRepo, itemRepo, validate, logr, service.AppointmentServiceConfig{
		ConflictPolicy:   cfg.Booking.ConflictPolicy,
		ValidateOnUpdate: cfg.Booking.ValidateOnUpdate,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", handler.NewMetricsHandler(metricsSvc).Expose)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	userHandler := handler.NewUserHandler(userSvc)
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.POST("/users", userHandler.Create)
	api.PUT("/users/:id", userHandler.Update)

	roleHandler := handler.NewRoleHandler(roleSvc)
	api.GET("/roles", roleHandler.List)
	api.GET("/roles/:id", roleHandler.Get)
	api.POST("/roles", roleHandler.Create)
	api.PUT("/roles/:id", roleHandler.Update)

	userRoleHandler := handler.NewUserRoleHandler(userRoleSvc)
	api.GET("/userRoles", userRoleHandler.List)
	api.POST("/userRoles", userRoleHandler.Create)
	api.PUT("/userRoles/:id", userRoleHandler.Update)

	roomHandler := handler.NewRoomHandler(roomSvc)
	api.GET("/rooms", roomHandler.List)
	api.GET("/rooms/:id", roomHandler.Get)
	api.POST("/rooms", roomHandler.Create)
	api.PUT("/rooms/:id", roomHandler.Update)

	itemHandler := handler.NewItemHandler(itemSvc)
	api.GET("/items", itemHandler.List)
	api.GET("/items/:id", itemHandler.Get)
	api.POST("/items", itemHandler.Create)
	api.PUT("/items/:id", itemHandler.Update)

	memberHandler := handler.NewMemberHandler(memberSvc)
	api.GET("/members", memberHandler.List)
	api.GET("/members/:id", memberHandler.Get)
	api.POST("/members", memberHandler.Create)
	api.PUT("/members/:id", memberHandler.Update)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	api.GET("/doctorSchedules", scheduleHandler.List)
	api.GET("/doctorSchedules/:id", scheduleHandler.Get)
	api.GET("/doctorSchedules/:id/workingDays", scheduleHandler.WorkingDays)
	api.GET("/doctorSchedules/:id/availableTimes", scheduleHandler.AvailableTimes)
	api.POST("/doctorSchedules", scheduleHandler.Create)
	api.PUT("/doctorSchedules/:id", scheduleHandler.Update)

	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc)
	api.GET("/appointments", appointmentHandler.List)
	api.GET("/appointments/:id", appointmentHandler.Get)
	api.POST("/appointments", appointmentHandler.Create)
	api.PUT("/appointments/:id", appointmentHandler.Update)

	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewDownloadTokenSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportJobRepo := repository.NewExportJobRepository(db)
		exportSvc := service.NewExportService(exportJobRepo, appointmentRepo, userRepo, exportStorage, signer, validate, logr)
		exportSvc.SetMetrics(metricsSvc)

		exportQueue = jobs.NewQueue("exports", exportSvc.HandleJob, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportSvc.SetQueue(exportQueue)
		exportQueue.Start(context.Background())
		defer exportQueue.Stop()

		exportHandler := handler.NewExportHandler(exportSvc, exportStorage)
		api.POST("/appointments/export", exportHandler.Create)
		api.GET("/exports/:id", exportHandler.Status)
		api.GET("/exports/:id/download", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
