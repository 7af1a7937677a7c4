// Package di wires services, stores, and handlers together.
package di

import (
	"github.com/eduflow/course-booking/internal/handler"
	"github.com/eduflow/course-booking/internal/repository"
	"github.com/eduflow/course-booking/internal/service"
	"github.com/eduflow/course-booking/internal/store"
	"github.com/eduflow/course-booking/pkg/redis"
)

// Container holds all dependencies for the service
type Container struct {
	// Infrastructure
	Redis   *redis.Client
	Catalog handler.Pinger

	// Stores
	CourseStore  store.CourseStore
	BookingStore store.BookingStore
	UserStore    store.UserStore
	SessionRepo  repository.SessionRepository

	// Publishers
	EventPublisher service.EventPublisher

	// Services
	BookingService service.BookingService
	CatalogService service.CatalogService
	AuthService    service.AuthService

	// Handlers
	HealthHandler  *handler.HealthHandler
	BookingHandler *handler.BookingHandler
	CourseHandler  *handler.CourseHandler
	AdminHandler   *handler.AdminHandler
	AuthHandler    *handler.AuthHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Redis          *redis.Client
	Catalog        handler.Pinger
	CourseStore    store.CourseStore
	BookingStore   store.BookingStore
	UserStore      store.UserStore
	SessionRepo    repository.SessionRepository
	EventPublisher service.EventPublisher
	BookingConfig  service.BookingServiceConfig
	AuthConfig     *service.AuthServiceConfig
	Version        string
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		Redis:          cfg.Redis,
		Catalog:        cfg.Catalog,
		CourseStore:    cfg.CourseStore,
		BookingStore:   cfg.BookingStore,
		UserStore:      cfg.UserStore,
		SessionRepo:    cfg.SessionRepo,
		EventPublisher: cfg.EventPublisher,
	}

	// Initialize services
	c.BookingService = service.NewBookingService(
		c.CourseStore,
		c.BookingStore,
		c.EventPublisher,
		cfg.BookingConfig,
	)
	c.CatalogService = service.NewCatalogService(c.CourseStore, c.BookingStore)
	c.AuthService = service.NewAuthService(c.UserStore, c.SessionRepo, cfg.AuthConfig)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.Redis, c.Catalog, cfg.Version)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)
	c.CourseHandler = handler.NewCourseHandler(c.CatalogService)
	c.AdminHandler = handler.NewAdminHandler(c.CatalogService)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)

	return c
}
