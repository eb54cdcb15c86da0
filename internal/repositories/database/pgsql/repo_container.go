package pgsql

import (
	portsrepo "github.com/SscSPs/vehicle_registry_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:    newPgxUserRepository(dbPool),
		VehicleRepo: newPgxVehicleRepository(dbPool),
	}
}
