package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appaccounting "github.com/ecclesia/backend/internal/application/accounting"
	appchurch "github.com/ecclesia/backend/internal/application/church"
	appfinance "github.com/ecclesia/backend/internal/application/finance"
	apidentity "github.com/ecclesia/backend/internal/application/identity"
	appschool "github.com/ecclesia/backend/internal/application/school"
	appstore "github.com/ecclesia/backend/internal/application/store"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/ecclesia/backend/internal/infrastructure/auth"
	"github.com/ecclesia/backend/internal/infrastructure/cache"
	"github.com/ecclesia/backend/internal/infrastructure/config"
	"github.com/ecclesia/backend/internal/infrastructure/event"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/infrastructure/notification"
	"github.com/ecclesia/backend/internal/infrastructure/payment"
	"github.com/ecclesia/backend/internal/infrastructure/persistence"
	"github.com/ecclesia/backend/internal/infrastructure/printing"
	"github.com/ecclesia/backend/internal/infrastructure/scheduler"
	"github.com/ecclesia/backend/internal/infrastructure/storage"
	"github.com/ecclesia/backend/internal/infrastructure/telemetry"
	"github.com/ecclesia/backend/internal/interfaces/http/handler"
	"github.com/ecclesia/backend/internal/interfaces/http/middleware"
	"github.com/ecclesia/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/ecclesia/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Ecclesia Backend API
//	@version		1.0
//	@description	Church administration API: members, accounting, finance, Sunday school and store.

//	@contact.name	API Support
//	@contact.url	https://github.com/ecclesia/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.ConfigForEnvironment(cfg.App.Env, cfg.Log.Level)
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	if cfg.Log.Output != "" {
		logCfg.Output = cfg.Log.Output
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    serviceVersion,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// Logs go to both stdout and the collector once the provider is up
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg)
	if err != nil {
		log.Warn("OTLP log export unavailable", zap.Error(err))
	} else if logProvider.IsEnabled() {
		baseCore, coreErr := logger.NewCore(logCfg)
		if coreErr == nil {
			otelCore := telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, logProvider, logger.ParseLevel(cfg.Log.Level))
			log = telemetry.Bridge(baseCore, otelCore)
		}
		defer func() {
			if err := logProvider.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down log provider", zap.Error(err))
			}
		}()
	}

	log.Info("Starting Ecclesia Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, time.Minute, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	metrics, err := telemetry.NewAppMetrics(meter)
	if err != nil {
		log.Warn("Application metrics unavailable", zap.Error(err))
		metrics = telemetry.NoopAppMetrics()
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeURL,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", zap.Error(err))
	} else {
		defer func() {
			_ = profiler.Stop()
		}()
		if profiler.IsEnabled() {
			tracerProvider.EnableSpanProfiles()
		}
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	log.Info("Database connected successfully")

	caches := cache.New(cfg.Redis, log)
	defer func() {
		if err := caches.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}()
	blacklist := auth.NewTokenBlacklist(caches.Client)

	objectStorage := newObjectStorage(ctx, cfg, log)
	sender := notification.NewSender(cfg.Email, log)

	renderer := printing.NewRenderer(cfg.Print, log)
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	gateway, err := payment.NewSandboxGateway(payment.SandboxConfigFromStore(cfg.Store), log)
	if err != nil {
		log.Fatal("Invalid payment gateway configuration", zap.Error(err))
	}

	// Repositories
	churchRepo := persistence.NewGormChurchRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	signalLookup := persistence.NewGormSignalLookup(db.DB)
	chartRepo := persistence.NewGormChartAccountRepository(db.DB)
	journalRepo := persistence.NewGormJournalEntryRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	financialEntryRepo := persistence.NewGormFinancialEntryRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)
	classroomRepo := persistence.NewGormClassroomRepository(db.DB)
	magazineRepo := persistence.NewGormMagazineRepository(db.DB)
	studentRepo := persistence.NewGormStudentRepository(db.DB)
	teacherRepo := persistence.NewGormTeacherRepository(db.DB)
	planRepo := persistence.NewGormLessonPlanRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	salesRepo := persistence.NewGormSalesRepository(db.DB)

	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := apidentity.NewAuthService(userRepo, signalLookup, jwtService, blacklist,
		apidentity.AuthServiceConfig{
			MaxLoginAttempts: cfg.JWT.MaxLoginAttempts,
			LockDuration:     cfg.JWT.LockoutDuration,
		}, log)
	userService := apidentity.NewUserService(userRepo, blacklist, cfg.JWT.RefreshTokenExpiration, eventBus, log)

	churchService := appchurch.NewChurchService(churchRepo, eventBus, log)
	memberService := appchurch.NewMemberService(memberRepo)

	accountingService := appaccounting.NewAccountingService(chartRepo, journalRepo,
		persistence.NewAccountingTransactionScope(db.DB), caches.Reports, eventBus, metrics, log)
	statementService := appaccounting.NewStatementService(chartRepo, journalRepo, churchRepo,
		caches.Reports, printing.NewStatementTemplates(), renderer, metrics, log)

	bankAccountService := appfinance.NewBankAccountService(bankAccountRepo, financialEntryRepo,
		persistence.NewFinanceTransactionScope(db.DB))
	billService := appfinance.NewBillService(billRepo, persistence.NewFinanceTransactionScope(db.DB),
		objectStorage, eventBus, log)
	reminderService := appfinance.NewBillReminderService(billRepo, churchRepo, sender,
		cfg.Scheduler.BillReminderDays, metrics, log)

	classroomService := appschool.NewClassroomService(classroomRepo, magazineRepo, studentRepo,
		teacherRepo, planRepo, objectStorage)
	lessonPlanService := appschool.NewLessonPlanService(classroomRepo, magazineRepo, planRepo,
		teacherRepo, studentRepo, attendanceRepo, persistence.NewSchoolTransactionScope(db.DB), eventBus, log)

	// "today" for overdue bills, lesson progress and default statement periods
	// follows the configured timezone
	for _, svc := range []interface{ UseLocation(*time.Location) }{statementService, billService, lessonPlanService} {
		svc.UseLocation(cfg.App.Location())
	}

	shipping := store.NewShippingCalculator(cfg.Store.OriginState, decimal.NewFromFloat(cfg.Store.FreeShippingAbove))
	catalogService := appstore.NewCatalogService(productRepo, log)
	cartService := appstore.NewCartService(productRepo, cartRepo, shipping)
	checkoutService := appstore.NewCheckoutService(productRepo, cartRepo, orderRepo, gateway, shipping,
		persistence.NewStoreTransactionScope(db.DB), eventBus, sender, metrics, log)
	salesService := appstore.NewSalesService(salesRepo)

	// New churches get the default chart of accounts
	churchCreatedHandler := appaccounting.NewChurchCreatedHandler(accountingService, log)
	eventBus.Subscribe(churchCreatedHandler)
	log.Info("Event handlers registered",
		zap.Strings("church_created_events", churchCreatedHandler.EventTypes()),
	)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Daily bill reminders
	if cfg.Scheduler.Enabled {
		jobScheduler, err := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		jobScheduler.Register(scheduler.JobKindBillReminder, reminderService)
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		trigger := scheduler.NewDailyTrigger(scheduler.DailyTriggerConfig{
			Kind:          scheduler.JobKindBillReminder,
			Hour:          cfg.Scheduler.BillReminderHour,
			Location:      cfg.App.Location(),
			CheckInterval: cfg.Scheduler.CheckInterval,
		}, jobScheduler, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start bill reminder trigger", zap.Error(err))
		}
		defer func() {
			_ = trigger.Stop(context.Background())
		}()
		log.Info("Bill reminders scheduled",
			zap.Int("hour", cfg.Scheduler.BillReminderHour),
			zap.Int("days_ahead", cfg.Scheduler.BillReminderDays),
		)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	if httpMetrics, err := middleware.HTTPMetrics(meter); err != nil {
		log.Warn("HTTP metrics unavailable", zap.Error(err))
	} else {
		engine.Use(httpMetrics)
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	checks := map[string]handler.Pinger{"database": db}
	if caches.Client != nil {
		checks["redis"] = redisPinger{caches.Client}
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, serviceVersion, checks)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(cfg.Swagger),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.SkipPaths = append(jwtConfig.SkipPaths, "/api/v1/system/ping")
	jwtConfig.Logger = log

	churchConfig := middleware.DefaultChurchConfig()
	churchConfig.HeaderEnabled = cfg.HTTP.AllowChurchHeader
	churchConfig.SkipPaths = append(churchConfig.SkipPaths,
		"/api/v1/auth",
		"/api/v1/system",
	)
	churchConfig.Validator = churchService
	churchConfig.Logger = log

	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler != nil && profiler.IsEnabled()

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig)).
		Use(middleware.ChurchMiddlewareWithConfig(churchConfig)).
		Use(middleware.Profiling(profilingConfig))

	router.RegisterAPI(r, router.Handlers{
		System:     systemHandler,
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Church:     handler.NewChurchHandler(churchService),
		Member:     handler.NewMemberHandler(memberService),
		Accounting: handler.NewAccountingHandler(accountingService, statementService),
		Finance:    handler.NewFinanceHandler(bankAccountService, billService),
		School:     handler.NewSchoolHandler(classroomService),
		LessonPlan: handler.NewLessonPlanHandler(lessonPlanService),
		Store:      handler.NewStoreHandler(catalogService, cartService),
		Order:      handler.NewOrderHandler(checkoutService),
		Sales:      handler.NewSalesHandler(salesService),
	})
	r.Setup()
	log.Info("Routes registered", zap.Int("count", len(r.Routes())))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns S3 storage when configured, local storage otherwise
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) appfinance.ObjectStorage {
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err == nil {
			log.Info("Using S3 object storage", zap.String("bucket", cfg.Storage.Bucket))
			return s3
		}
		log.Warn("S3 storage unavailable, falling back to local storage", zap.Error(err))
	}
	return storage.NewLocalObjectStorage("http://localhost:" + cfg.App.Port + "/files")
}

// redisPinger adapts the Redis client to the readiness check
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
