package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eduflow/course-booking/internal/di"
	"github.com/eduflow/course-booking/internal/metrics"
	"github.com/eduflow/course-booking/internal/middleware"
	"github.com/eduflow/course-booking/internal/repository"
	"github.com/eduflow/course-booking/internal/service"
	"github.com/eduflow/course-booking/internal/store"
	"github.com/eduflow/course-booking/internal/worker"
	"github.com/eduflow/course-booking/pkg/config"
	"github.com/eduflow/course-booking/pkg/logger"
	pkgredis "github.com/eduflow/course-booking/pkg/redis"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if cfg.App.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting course booking service...")

	ctx := context.Background()

	// Initialize tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Telemetry init failed, continuing without tracing: %v", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	if err := metrics.Init(); err != nil {
		appLog.Warn(fmt.Sprintf("Metrics init failed: %v", err))
	}

	// Connect to the catalog data API
	catalogClient, err := store.NewClient(&store.ClientConfig{
		BaseURL:           cfg.Catalog.BaseURL,
		Timeout:           cfg.Catalog.Timeout,
		MaxRetries:        cfg.Catalog.MaxRetries,
		OptimisticLocking: cfg.Catalog.OptimisticLocking,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Invalid catalog client config: %v", err))
	}
	if err := catalogClient.Ping(ctx); err != nil {
		appLog.Warn(fmt.Sprintf("Catalog API not reachable at startup: %v", err))
	} else {
		appLog.Info(fmt.Sprintf("Catalog API connected at %s", cfg.Catalog.BaseURL))
	}

	// Connect to Redis
	redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer redisClient.Close()
	appLog.Info("Redis connected")

	// Initialize Kafka event publisher
	var eventPublisher service.EventPublisher = service.NewNoOpEventPublisher()
	if cfg.Kafka.Enabled {
		publisher, err := service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: cfg.App.Name,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Kafka connection failed, using no-op publisher: %v", err))
		} else {
			eventPublisher = publisher
			appLog.Info("Kafka event publisher connected")
		}
	}
	defer eventPublisher.Close()

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Redis:          redisClient,
		Catalog:        catalogClient,
		CourseStore:    store.NewRESTCourseStore(catalogClient),
		BookingStore:   store.NewRESTBookingStore(catalogClient),
		UserStore:      store.NewRESTUserStore(catalogClient),
		SessionRepo:    repository.NewRedisSessionRepository(redisClient),
		EventPublisher: eventPublisher,
		BookingConfig: service.BookingServiceConfig{
			AllowOverbooking: cfg.Booking.AllowOverbooking,
			MaxUpdateRetries: cfg.Booking.MaxUpdateRetries,
		},
		AuthConfig: &service.AuthServiceConfig{
			JWTSecret: cfg.JWT.Secret,
			TokenTTL:  cfg.JWT.AccessTokenTTL,
			Issuer:    cfg.JWT.Issuer,
		},
		Version: cfg.App.Version,
	})

	// Start the orphan booking sweeper
	sweeperCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	sweeper := worker.NewSweeper(container.CourseStore, container.BookingStore, worker.SweeperConfig{
		Interval: cfg.Sweeper.Interval,
	})
	go sweeper.Start(sweeperCtx)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// API routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", container.AuthHandler.Register)
			auth.POST("/login", container.AuthHandler.Login)
			auth.POST("/logout", container.AuthHandler.Logout)
			auth.GET("/me", container.AuthHandler.Me)
			auth.PATCH("/me", middleware.Auth(container.AuthService), container.AuthHandler.UpdateProfile)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("", container.CourseHandler.ListCourses)
			courses.GET("/:id", container.CourseHandler.GetCourse)
		}

		bookings := v1.Group("/bookings")
		bookings.Use(middleware.Auth(container.AuthService))
		{
			bookings.POST("", container.BookingHandler.BookCourse)
			bookings.GET("", container.BookingHandler.ListMyBookings)
			bookings.GET("/:id", container.BookingHandler.GetBooking)
			bookings.DELETE("/:id", container.BookingHandler.CancelBooking)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(container.AuthService), middleware.AdminOnly())
		{
			admin.GET("/courses", container.AdminHandler.ListCoursesWithEnrollments)
			admin.POST("/courses", container.AdminHandler.CreateCourse)
			admin.PUT("/courses/:id", container.AdminHandler.UpdateCourse)
			admin.DELETE("/courses/:id", container.AdminHandler.SoftDeleteCourse)
			admin.DELETE("/courses/:id/permanent", container.AdminHandler.DeleteCourse)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Course booking service listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
