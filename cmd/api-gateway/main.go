package main

import (
	"context"
	"fmt"
	"log"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/pathway-planner-api/api/swagger"
	internalhandler "github.com/noah-isme/pathway-planner-api/internal/handler"
	internalmiddleware "github.com/noah-isme/pathway-planner-api/internal/middleware"
	"github.com/noah-isme/pathway-planner-api/internal/models"
	"github.com/noah-isme/pathway-planner-api/internal/repository"
	"github.com/noah-isme/pathway-planner-api/internal/service"
	"github.com/noah-isme/pathway-planner-api/pkg/cache"
	"github.com/noah-isme/pathway-planner-api/pkg/config"
	"github.com/noah-isme/pathway-planner-api/pkg/database"
	"github.com/noah-isme/pathway-planner-api/pkg/jobs"
	"github.com/noah-isme/pathway-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/pathway-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/pathway-planner-api/pkg/middleware/requestid"
	"github.com/noah-isme/pathway-planner-api/pkg/storage"
)

// @title Pathway Planner API
// @version 0.1.0
// @description Degree pathway planning, scoring and seat reservation service
// @BasePath /
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

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	authRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(authRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "pathway-planner-api",
		Audience:           []string{"pathway-planner-clients"},
	})
	authHandler := internalhandler.NewAuthHandler(authSvc)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)
	protectedAuth := authRoutes.Group("")
	protectedAuth.Use(internalmiddleware.JWT(authSvc))
	protectedAuth.POST("/logout", authHandler.Logout)
	protectedAuth.POST("/change-password", authHandler.ChangePassword)
	protectedAuth.GET("/me", authHandler.Me)

	userSvc := service.NewUserService(authRepo, nil, logr)
	userHandler := internalhandler.NewUserHandler(userSvc)

	courseRepo := repository.NewCourseRepository(db)
	offeringRepo := repository.NewOfferingRepository(db)
	pathwayRepo := repository.NewPathwayRepository(db)
	preferencesRepo := repository.NewPreferencesRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	var catalogCache *service.CacheService
	if cfg.Catalog.CacheEnabled {
		if client, err := cache.NewRedis(cfg.Redis); err != nil {
			logr.Sugar().Warnw("catalog cache disabled", "error", err)
		} else {
			defer client.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(client, logr)
			catalogCache = service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, true)
		}
	}

	catalogSvc := service.NewCatalogService(pathwayRepo, courseRepo, offeringRepo, catalogCache)
	courseHandler := internalhandler.NewCourseHandler(catalogSvc)

	preferencesSvc := service.NewPreferencesService(preferencesRepo, nil, logr)
	preferencesHandler := internalhandler.NewPreferencesHandler(preferencesSvc)

	workers := cfg.Planner.Workers
	if workers <= 0 {
		workers = 1
	}
	var planSvc *service.PlanService
	solveQueue := jobs.NewQueue("planner.exact", func(ctx context.Context, job jobs.Job) error {
		return planSvc.HandleExactJob(ctx, job)
	}, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: workers * 4,
		MaxRetries: 1,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	queueCtx, cancelQueue := context.WithCancel(context.Background())
	solveQueue.Start(queueCtx)
	defer func() {
		cancelQueue()
		solveQueue.Stop()
	}()

	planSvc = service.NewPlanService(
		pathwayRepo,
		courseRepo,
		offeringRepo,
		preferencesRepo,
		nil,
		solveQueue,
		metricsSvc,
		logr,
		service.PlanServiceConfig{
			ProposalTTL:        cfg.Planner.ProposalTTL,
			ExactAsyncNodeHint: cfg.Planner.ExactAsyncNodeHint,
		},
	)

	if cfg.PlanExport.SignedURLSecret == "" {
		logr.Sugar().Fatal("plan export signed url secret not configured")
	}
	exportStore, err := storage.NewLocalStorage(cfg.PlanExport.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.PlanExport.SignedURLSecret, cfg.PlanExport.SignedURLTTL)
	exportSvc := service.NewExportService(exportStore, exportSigner, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.PlanExport.SignedURLTTL,
	}, logr, nil, nil)
	startExportCleanup(queueCtx, exportSvc, cfg.PlanExport.CleanupInterval, logr)

	planHandler := internalhandler.NewPlanHandler(planSvc, exportSvc)

	reservationSvc := service.NewReservationService(reservationRepo, offeringRepo, cfg.Reservation.DefaultHoldDuration, logr)
	reservationHandler := internalhandler.NewReservationHandler(reservationSvc)
	startReservationSweep(queueCtx, reservationSvc, metricsSvc, cfg.Reservation.SweepInterval, logr)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))

	anyRole := internalmiddleware.RBAC(
		string(models.RoleStudent),
		string(models.RoleAdvisor),
		string(models.RoleAdmin),
		string(models.RoleSuperAdmin),
	)
	adminOnly := internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin))

	usersGroup := secured.Group("/users")
	usersGroup.GET("", adminOnly, userHandler.List)
	usersGroup.POST("", adminOnly, userHandler.Create)
	usersGroup.GET("/:id", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), userHandler.Get)
	usersGroup.PUT("/:id", adminOnly, userHandler.Update)
	usersGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), userHandler.Delete)

	pathwaysGroup := secured.Group("/pathways")
	pathwaysGroup.GET("", anyRole, courseHandler.ListPathways)
	pathwaysGroup.GET("/:id", anyRole, courseHandler.GetPathway)
	pathwaysGroup.POST("/:id/plan", anyRole, planHandler.Generate)

	secured.GET("/offerings", anyRole, courseHandler.ListOfferings)
	secured.GET("/courses/:code/eligibility", anyRole, courseHandler.CheckEligibility)

	plansGroup := secured.Group("/plans")
	plansGroup.GET("/export/:token", planHandler.Download)
	plansGroup.GET("/:proposalId", anyRole, planHandler.GetProposal)
	plansGroup.POST("/:proposalId/score", anyRole, planHandler.Score)
	plansGroup.GET("/:proposalId/export", anyRole, planHandler.Export)

	preferencesGroup := secured.Group("/preferences")
	preferencesGroup.GET("/:id", internalmiddleware.RBAC("SELF", string(models.RoleAdvisor), string(models.RoleAdmin), string(models.RoleSuperAdmin)), preferencesHandler.Get)
	preferencesGroup.PUT("/:id", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), preferencesHandler.Update)

	reservationsGroup := secured.Group("/reservations")
	reservationsGroup.POST("", anyRole, internalmiddleware.Audit(authRepo, "reservation.create", "reservation"), reservationHandler.Create)
	reservationsGroup.GET("/:id", anyRole, reservationHandler.Get)
	reservationsGroup.POST("/:id/commit", anyRole, internalmiddleware.Audit(authRepo, "reservation.commit", "reservation"), reservationHandler.Commit)
	reservationsGroup.POST("/:id/release", anyRole, internalmiddleware.Audit(authRepo, "reservation.release", "reservation"), reservationHandler.Release)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// startReservationSweep periodically expires lapsed holds so capacity
// accounting stays fresh even when no request touches the offering, and
// refreshes the active-holds gauge.
func startReservationSweep(ctx context.Context, svc *service.ReservationService, metrics *service.MetricsService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := svc.ExpireSweep(ctx); err != nil {
					logr.Warn("reservation sweep failed", zap.Error(err))
					continue
				}
				if active, err := svc.ActiveHolds(ctx); err == nil {
					metrics.SetActiveReservationHolds(active)
				}
			}
		}
	}()
}

// startExportCleanup removes exported plan files whose download URLs have
// expired.
func startExportCleanup(ctx context.Context, svc *service.ExportService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := svc.Cleanup(0)
				if err != nil {
					logr.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					logr.Info("removed expired plan exports", zap.Int("count", len(removed)))
				}
			}
		}
	}()
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
