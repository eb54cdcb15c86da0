package services

import (
	portsrepo "github.com/SscSPs/vehicle_registry_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vehicle_registry_app/internal/core/ports/services"
	"github.com/SscSPs/vehicle_registry_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The exchange service is built by the caller because it owns the cache and provider adapters.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, exchange portssvc.ExchangeRateSvcFacade) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.ExchangeRate = exchange
	container.User = NewUserService(repos.UserRepo)
	container.Vehicle = NewVehicleService(repos.VehicleRepo, container.ExchangeRate)
	container.TokenService = NewTokenService(cfg)

	return container
}
