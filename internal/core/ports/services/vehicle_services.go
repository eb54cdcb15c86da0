package services

import (
	"context"

	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	"github.com/SscSPs/vehicle_registry_app/internal/dto"
)

// VehicleReaderSvc defines read operations for vehicles
type VehicleReaderSvc interface {
	GetVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, params dto.ListVehiclesParams) (*dto.ListVehiclesResponse, error)
	ReportByBrand(ctx context.Context) ([]domain.BrandCount, error)
}

// VehicleWriterSvc defines write operations for vehicles. Prices in the
// requests are BRL and are converted to USD before anything is stored.
type VehicleWriterSvc interface {
	CreateVehicle(ctx context.Context, req dto.CreateVehicleRequest, creatorUserID string) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicleID string, req dto.UpdateVehicleRequest, requestingUserID string) (*domain.Vehicle, error)
	PatchVehicle(ctx context.Context, vehicleID string, req dto.PatchVehicleRequest, requestingUserID string) (*domain.Vehicle, error)
}

// VehicleLifecycleSvc defines soft deletion of vehicles
type VehicleLifecycleSvc interface {
	DeleteVehicle(ctx context.Context, vehicleID string, requestingUserID string) error
}

// VehicleSvcFacade combines all vehicle-related service interfaces
type VehicleSvcFacade interface {
	VehicleReaderSvc
	VehicleWriterSvc
	VehicleLifecycleSvc
}
