package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
)

// VehicleReader defines read operations for vehicle data. Soft-deleted
// vehicles are never returned.
type VehicleReader interface {
	// FindVehicleByID retrieves a vehicle by ID.
	FindVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error)

	// FindVehicles returns one page of vehicles matching the filter plus the
	// total number of matches.
	FindVehicles(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, int64, error)

	// CountVehiclesByBrand returns the number of vehicles per brand, ordered by brand.
	CountVehiclesByBrand(ctx context.Context) ([]domain.BrandCount, error)
}

// VehicleWriter defines write operations for vehicle data.
// Both return apperrors.ErrDuplicate when the plate is already registered.
type VehicleWriter interface {
	SaveVehicle(ctx context.Context, vehicle domain.Vehicle) error
	UpdateVehicle(ctx context.Context, vehicle domain.Vehicle) error
}

// VehicleLifecycleManager defines soft deletion.
type VehicleLifecycleManager interface {
	MarkVehicleDeleted(ctx context.Context, vehicleID string, deletedAt time.Time, deletedBy string) error
}

// VehicleRepositoryFacade combines all vehicle-related repository interfaces
type VehicleRepositoryFacade interface {
	VehicleReader
	VehicleWriter
	VehicleLifecycleManager
}
