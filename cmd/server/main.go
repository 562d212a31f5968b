package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	printingapp "github.com/storefront/backend/internal/application/printing"
	shoppingapp "github.com/storefront/backend/internal/application/shopping"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/backend"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/printing"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Storefront BFF API
//	@version		1.0
//	@description	Session, cart, wishlist, checkout and dashboard gateway in front of the shop REST backend

//	@host		localhost:8080
//	@BasePath	/api/v1

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Logs bridge first so every later component logs through it
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize logs exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg, logsProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront BFF",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	var profiler *telemetry.Profiler
	if cfg.Telemetry.ProfilingEnabled {
		profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:         true,
			ServerAddress:   cfg.Telemetry.PyroscopeURL,
			ApplicationName: cfg.Telemetry.ServiceName,
			IncludeMemory:   true,
		}, log)
		if err != nil {
			log.Warn("Continuous profiling disabled", zap.Error(err))
		} else if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	// List store
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := migrateListStore(db, log); err != nil {
		log.Fatal("Failed to migrate list store", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.Enabled = true
		dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
		dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		dbTracing.DBSystem = db.Driver
		if err := telemetry.NewDBTracingPlugin(dbTracing, log).RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	var dbMetrics *telemetry.DBMetrics
	if meterProvider.IsEnabled() {
		dbMetrics, err = telemetry.NewDBMetrics(meterProvider.Meter("storefront/db"), telemetry.DBMetricsConfig{
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err == nil {
			err = dbMetrics.Register(db.DB)
		}
		if err != nil {
			log.Warn("Database metrics disabled", zap.Error(err))
			dbMetrics = nil
		} else {
			dbMetrics.StartPoolStatsCollection(ctx)
		}
	}

	// Redis backs sessions, revoked cookies, the catalog cache and checkout keys
	var redisClient *redis.Client
	if cfg.Session.Store == "redis" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var (
		sessionStore identity.SessionStore
		blacklist    auth.TokenBlacklist
		byteStore    cache.ByteStore
	)
	if redisClient != nil {
		sessionStore = session.NewRedisStore(redisClient, cfg.Session.KeyPrefix)
		blacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		byteStore = cache.NewRedisByteStore(redisClient)
	} else {
		log.Warn("Using in-memory session store; sessions do not survive restarts")
		sessionStore = session.NewMemoryStore()
		blacklist = auth.NewInMemoryTokenBlacklist()
		byteStore = cache.NewMemoryByteStore()
	}

	// Metrics
	var storeMetrics *telemetry.StoreMetrics
	listRepo := persistence.NewGormListRepository(db.DB)
	if meterProvider.IsEnabled() {
		storeMetrics, err = telemetry.NewStoreMetrics(telemetry.StoreMetricsConfig{
			Meter:     meterProvider.Meter("storefront"),
			Logger:    log,
			ListStats: listRepo,
		})
		if err != nil {
			log.Warn("Store metrics disabled", zap.Error(err))
			storeMetrics = nil
		} else {
			storeMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
		}
	}

	// Backend
	var clientOpts []backend.Option
	if storeMetrics != nil {
		clientOpts = append(clientOpts, backend.WithRecorder(storeMetrics))
	}
	backendClient, err := backend.NewClient(cfg.Backend, clientOpts...)
	if err != nil {
		log.Fatal("Failed to create backend client", zap.Error(err))
	}

	var resources catalog.ResourceRepository = backendClient
	if cfg.Cache.Enabled {
		cached := cache.NewCachedResourceRepository(backendClient, byteStore, cfg.Cache.TTL, cfg.Cache.KeyPrefix)
		if storeMetrics != nil {
			cached.SetRecorder(storeMetrics)
		}
		resources = cached
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT, cfg.Session.TTL)
	sessionService := identityapp.NewSessionService(backendClient, sessionStore, jwtService, blacklist, log)

	syncService := shoppingapp.NewSyncService(listRepo, backendClient, shoppingapp.QueueConfig{
		Buffer:      cfg.Queue.Buffer,
		IdleTimeout: cfg.Queue.IdleTimeout,
	}, log)
	sessionService.SetCartMerger(syncService)

	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore = cache.NewIdempotencyStoreFactory(redisClientOrNil(redisClient),
			cache.WithLogger(log),
			cache.WithKeyPrefix(cfg.Idempotency.KeyPrefix),
		).CreateStore()
	}
	checkoutService := shoppingapp.NewCheckoutService(syncService, backendClient, idempotencyStore, cfg.Idempotency.TTL, log)

	storefrontService := catalogapp.NewStorefrontService(resources, backendClient, cfg.Pagination.PageSize)
	dashboardService := catalogapp.NewDashboardService(resources, catalogapp.WithPageSize(cfg.Pagination.PageSize))

	imageStorage, err := newImageStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	imageCfg := catalogapp.DefaultImageServiceConfig()
	imageCfg.UploadURLExpiry = cfg.Storage.PresignExpiry
	imageCfg.MaxUploadSize = cfg.Storage.MaxUploadSize
	imageService := catalogapp.NewImageService(imageStorage, imageCfg)

	var pdfRenderer printing.PDFRenderer
	if cfg.Printing.PDFEnabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      os.Geteuid() == 0,
			Logger:         log,
		})
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		pdfRenderer = renderer
	}
	invoiceService := printingapp.NewInvoiceService(resources, printing.NewTemplateEngine(), pdfRenderer, printingapp.InvoiceConfig{
		StoreName: cfg.Printing.StoreName,
		Timeout:   cfg.Printing.Timeout,
	}, log)

	if storeMetrics != nil {
		sessionService.SetMetrics(storeMetrics)
		syncService.SetMetrics(storeMetrics)
		checkoutService.SetMetrics(storeMetrics)
	}

	// Guest list janitor
	jobsCfg := scheduler.DefaultSchedulerConfig()
	jobsCfg.JobTimeout = cfg.Janitor.BatchTimeout
	jobs := scheduler.NewScheduler(jobsCfg, log)
	var janitor *scheduler.IntervalTrigger
	if cfg.Janitor.Enabled {
		prune := scheduler.NewGuestPruneTask(listRepo, cfg.Janitor.GuestMaxAge, log)
		if storeMetrics != nil {
			prune.SetRecorder(storeMetrics)
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		janitor = scheduler.NewIntervalTrigger(cfg.Janitor.Interval, jobs, log, []scheduler.Task{prune}, scheduler.WithRunAtStart())
		if err := janitor.Start(ctx); err != nil {
			log.Fatal("Failed to start guest list janitor", zap.Error(err))
		}
	}

	// HTTP handlers
	cookie := handler.NewSessionCookie(cfg.Cookie)
	base := handler.NewBaseHandler(handler.Landing{
		SignInPath: cfg.Session.SignInPath,
		HomePath:   cfg.Session.HomePath,
	})
	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(base, sessionService, cookie),
		Storefront: handler.NewStorefrontHandler(base, storefrontService),
		Shopping:   handler.NewShoppingHandler(base, syncService, checkoutService, sessionService, cookie),
		Dashboard:  handler.NewDashboardHandler(base, dashboardService),
		Invoices:   handler.NewInvoiceHandler(base, invoiceService),
		Images:     handler.NewImageHandler(base, imageService),
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first:
	// tracing, request id, recovery, access log, security headers, CORS,
	// body limit, HTTP metrics
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.Cookie.Secure
	engine.Use(middleware.SecureWithConfig(security))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       meterProvider.IsEnabled(),
	}))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		AddCheck("database", func(context.Context) error { return db.Ping() }).
		AddCheck("backend", backendClient.Ping)
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiters = append(limiters, limiter)
		r.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	sessionGate := middleware.SessionGate(middleware.SessionGateConfig{
		Sessions:   sessionService,
		CookieName: cfg.Cookie.Name,
		Logger:     log,
	})
	r.Use(
		sessionGate,
		middleware.TracingAttributeInjector(),
		middleware.ProfilingWithConfig(middleware.ProfilingConfig{
			Enabled:          profiler != nil,
			SkipPaths:        []string{"/health", "/ready"},
			SkipPathPrefixes: []string{"/debug"},
		}),
	)

	guardCfg := middleware.RoleGuardConfig{
		SignInPath: cfg.Session.SignInPath,
		HomePath:   cfg.Session.HomePath,
		Logger:     log,
	}
	if storeMetrics != nil {
		guardCfg.Recorder = storeMetrics
	}
	guards := router.Guards{
		Customer:    middleware.RequireRole(identity.PolicyCustomer, guardCfg),
		Dashboard:   middleware.RequireRole(identity.PolicyDashboard, guardCfg),
		Destructive: middleware.RequireRole(identity.PolicyDestructive, guardCfg),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		signInLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, signInLimiter)
		guards.SignIn = middleware.RateLimitByKey(signInLimiter, func(c *gin.Context) string {
			return "signin:" + c.ClientIP()
		})
	}

	if cfg.Swagger.Enabled {
		docsGuards := []gin.HandlerFunc{middleware.AllowIPs(cfg.Swagger.AllowedIPs)}
		if cfg.Swagger.RequireAuth {
			docsGuards = append(docsGuards, sessionGate, guards.Dashboard)
		}
		router.RegisterDocs(engine, docsGuards...)
		log.Info("Swagger docs enabled", zap.Bool("require_auth", cfg.Swagger.RequireAuth))
	}

	for _, group := range router.StorefrontGroups(handlers, guards) {
		r.Register(group)
	}
	r.Setup()

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

	<-ctx.Done()
	stop()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Background work stops after the last request finished
	if janitor != nil {
		if err := janitor.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping guest list janitor", zap.Error(err))
		}
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping scheduler", zap.Error(err))
	}
	for _, l := range limiters {
		l.Stop()
	}
	syncService.Close()
	if idempotencyStore != nil {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}
	if storeMetrics != nil {
		storeMetrics.Stop()
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	_ = logsProvider.Shutdown(shutdownCtx)
}

// migrateListStore brings the list tables up to date. Postgres runs the SQL
// migrations; SQLite development databases use AutoMigrate.
func migrateListStore(db *persistence.Database, log *zap.Logger) error {
	if db.Driver != persistence.DriverPostgres {
		return db.AutoMigrate()
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	// Close is skipped: it would close the shared pool too
	return m.Up()
}

// newImageStorage picks S3 when configured and a local stub otherwise
func newImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.ImageStorage, error) {
	if !cfg.Storage.Enabled {
		base := cfg.Storage.PublicBaseURL
		if base == "" {
			base = "http://localhost:" + cfg.App.Port + "/uploads"
		}
		log.Warn("Object storage disabled, image uploads use a local stub", zap.String("base_url", base))
		return storage.NewStubObjectStorage(base), nil
	}
	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(ensureCtx); err != nil {
		log.Warn("Could not verify image bucket", zap.String("bucket", s3Storage.Bucket()), zap.Error(err))
	}
	return s3Storage, nil
}

// redisClientOrNil keeps a nil *redis.Client from becoming a non-nil interface
func redisClientOrNil(c *redis.Client) redis.UniversalClient {
	if c == nil {
		return nil
	}
	return c
}
