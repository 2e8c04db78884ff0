package di

import (
	"context"

	"github.com/rlawlghkd12/tutomate-sub000/internal/handler"
	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
	"github.com/rlawlghkd12/tutomate-sub000/internal/service"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/config"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/database"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/telemetry"
)

// Container holds all dependencies for the server
type Container struct {
	// Infrastructure
	DB *database.PostgresDB

	// Repositories
	UserRepo       repository.UserRepository
	LicenseKeyRepo repository.LicenseKeyRepository
	OrgRepo        repository.OrganizationRepository
	MembershipRepo repository.MembershipRepository
	TableRepo      repository.TableRepository

	// Services
	AuthService       service.AuthService
	ActivationService service.ActivationService
	LicenseService    service.LicenseService
	OrgService        service.OrganizationService
	TableService      service.TableService

	// Handlers
	HealthHandler     *handler.HealthHandler
	AuthHandler       *handler.AuthHandler
	ActivationHandler *handler.ActivationHandler
	LicenseHandler    *handler.LicenseHandler
	TableHandler      *handler.TableHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config  *config.Config
	Log     *logger.Logger
	Metrics *telemetry.ActivationMetrics
	// DB is optional; when nil the container wires in-memory repositories,
	// which is what tests and standalone local runs use.
	DB *database.PostgresDB
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB: cfg.DB,
	}

	// Initialize repositories
	if cfg.DB != nil {
		c.UserRepo = repository.NewPostgresUserRepository(cfg.DB.Pool)
		c.LicenseKeyRepo = repository.NewPostgresLicenseKeyRepository(cfg.DB.Pool)
		c.OrgRepo = repository.NewPostgresOrganizationRepository(cfg.DB.Pool)
		c.MembershipRepo = repository.NewPostgresMembershipRepository(cfg.DB.Pool)
		c.TableRepo = repository.NewPostgresTableRepository(cfg.DB.Pool)
	} else {
		c.UserRepo = repository.NewMemoryUserRepository()
		c.LicenseKeyRepo = repository.NewMemoryLicenseKeyRepository()
		c.OrgRepo = repository.NewMemoryOrganizationRepository()
		c.MembershipRepo = repository.NewMemoryMembershipRepository()
		c.TableRepo = repository.NewMemoryTableRepository()
	}

	// Initialize services
	c.AuthService = service.NewAuthService(c.UserRepo, service.AuthConfig{
		Secret:   cfg.Config.JWT.Secret,
		TokenTTL: cfg.Config.JWT.SessionTokenTTL,
		Issuer:   cfg.Config.JWT.Issuer,
	})
	c.ActivationService = service.NewActivationService(
		c.LicenseKeyRepo, c.OrgRepo, c.MembershipRepo, c.UserRepo,
		service.ActivationConfig{
			DefaultMaxSeats: cfg.Config.License.DefaultMaxSeats,
			DefaultOrgName:  cfg.Config.License.DefaultOrgName,
		},
		cfg.Log, cfg.Metrics,
	)
	c.LicenseService = service.NewLicenseService(c.LicenseKeyRepo, c.OrgRepo, cfg.Log)
	c.OrgService = service.NewOrganizationService(c.OrgRepo, c.MembershipRepo)
	c.TableService = service.NewTableService(c.TableRepo)

	// Initialize handlers
	var ready func() error
	if cfg.DB != nil {
		ready = func() error { return cfg.DB.Ping(context.Background()) }
	}
	c.HealthHandler = handler.NewHealthHandler(ready)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.ActivationHandler = handler.NewActivationHandler(c.ActivationService)
	c.LicenseHandler = handler.NewLicenseHandler(c.LicenseService, c.OrgService)
	c.TableHandler = handler.NewTableHandler(c.TableService, c.OrgService)

	return c
}
