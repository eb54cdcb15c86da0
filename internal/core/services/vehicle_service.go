package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/apperrors"
	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	portsrepo "github.com/SscSPs/vehicle_registry_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vehicle_registry_app/internal/core/ports/services"
	"github.com/SscSPs/vehicle_registry_app/internal/dto"
	"github.com/SscSPs/vehicle_registry_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// priceScale matches the scale of the preco_usd column.
const priceScale = 6

type vehicleService struct {
	BaseService
	vehicleRepo portsrepo.VehicleRepositoryFacade
	exchange    portssvc.ExchangeRateSvcFacade
	now         func() time.Time
}

// VehicleServiceOption is a functional option for configuring the vehicle service
type VehicleServiceOption func(*vehicleService)

// WithVehicleClock replaces time.Now for audit timestamps.
func WithVehicleClock(now func() time.Time) VehicleServiceOption {
	return func(s *vehicleService) {
		s.now = now
	}
}

// NewVehicleService creates the vehicle service. Every price written goes
// through exchange.ConvertToUSD first.
func NewVehicleService(vehicleRepo portsrepo.VehicleRepositoryFacade, exchange portssvc.ExchangeRateSvcFacade, options ...VehicleServiceOption) portssvc.VehicleSvcFacade {
	svc := &vehicleService{
		vehicleRepo: vehicleRepo,
		exchange:    exchange,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.VehicleSvcFacade = (*vehicleService)(nil)

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func (s *vehicleService) toUSD(ctx context.Context, priceBRL decimal.Decimal) (decimal.Decimal, error) {
	priceUSD, err := s.exchange.ConvertToUSD(ctx, priceBRL)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to convert price: %w", err)
	}
	priceUSD = priceUSD.Round(priceScale)
	if !priceUSD.IsPositive() {
		return decimal.Decimal{}, apperrors.NewValidationFailedError(
			fmt.Sprintf("preco %s BRL is too small to convert to USD", priceBRL.String()))
	}
	return priceUSD, nil
}

func (s *vehicleService) GetVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle %s: %w", vehicleID, err)
	}
	return vehicle, nil
}

func (s *vehicleService) ListVehicles(ctx context.Context, params dto.ListVehiclesParams) (*dto.ListVehiclesResponse, error) {
	if params.MinPreco != nil && params.MaxPreco != nil && params.MinPreco.GreaterThan(*params.MaxPreco) {
		return nil, apperrors.NewValidationFailedError("minPreco must not be greater than maxPreco")
	}

	sortBy := domain.VehicleSortField(params.SortBy)
	if sortBy == "" {
		sortBy = domain.SortByCreatedAt
	}
	if !sortBy.IsValid() {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("invalid sortBy %q", params.SortBy))
	}

	page, pageSize := pagination.Normalize(params.Page, params.PageSize)
	limit, offset := pagination.LimitOffset(page, pageSize)
	filter := domain.VehicleFilter{
		Brand:    params.Marca,
		Year:     params.Ano,
		Color:    params.Cor,
		MinPrice: params.MinPreco,
		MaxPrice: params.MaxPreco,
		SortBy:   sortBy,
		SortDesc: strings.EqualFold(params.SortOrder, "desc"),
		Limit:    limit,
		Offset:   offset,
	}

	vehicles, total, err := s.vehicleRepo.FindVehicles(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vehicles")
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	resp := dto.ToListVehiclesResponse(vehicles, page, pageSize, total)
	return &resp, nil
}

func (s *vehicleService) ReportByBrand(ctx context.Context) ([]domain.BrandCount, error) {
	rows, err := s.vehicleRepo.CountVehiclesByBrand(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build brand report: %w", err)
	}
	if rows == nil {
		rows = []domain.BrandCount{}
	}
	s.LogInfo(ctx, "Brand report generated", slog.Int("brands", len(rows)))
	return rows, nil
}

func (s *vehicleService) CreateVehicle(ctx context.Context, req dto.CreateVehicleRequest, creatorUserID string) (*domain.Vehicle, error) {
	priceUSD, err := s.toUSD(ctx, req.Preco)
	if err != nil {
		return nil, err
	}

	now := s.now()
	vehicle := domain.Vehicle{
		VehicleID:   uuid.NewString(),
		Plate:       normalizePlate(req.Placa),
		Brand:       strings.TrimSpace(req.Marca),
		Model:       strings.TrimSpace(req.Modelo),
		Year:        req.Ano,
		Color:       strings.TrimSpace(req.Cor),
		PriceUSD:    priceUSD,
		Description: req.Descricao,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.vehicleRepo.SaveVehicle(ctx, vehicle); err != nil {
		return nil, s.wrapWriteError(ctx, err, vehicle.Plate, "create")
	}

	s.LogInfo(ctx, "Vehicle created",
		slog.String("vehicle_id", vehicle.VehicleID),
		slog.String("marca", vehicle.Brand),
		slog.String("modelo", vehicle.Model))
	return &vehicle, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, vehicleID string, req dto.UpdateVehicleRequest, requestingUserID string) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicle for update: %w", err)
	}

	priceUSD, err := s.toUSD(ctx, req.Preco)
	if err != nil {
		return nil, err
	}

	vehicle.Plate = normalizePlate(req.Placa)
	vehicle.Brand = strings.TrimSpace(req.Marca)
	vehicle.Model = strings.TrimSpace(req.Modelo)
	vehicle.Year = req.Ano
	vehicle.Color = strings.TrimSpace(req.Cor)
	vehicle.PriceUSD = priceUSD
	vehicle.Description = req.Descricao
	vehicle.LastUpdatedAt = s.now()
	vehicle.LastUpdatedBy = requestingUserID

	if err := s.vehicleRepo.UpdateVehicle(ctx, *vehicle); err != nil {
		return nil, s.wrapWriteError(ctx, err, vehicle.Plate, "update")
	}

	s.LogInfo(ctx, "Vehicle updated", slog.String("vehicle_id", vehicleID))
	return vehicle, nil
}

func (s *vehicleService) PatchVehicle(ctx context.Context, vehicleID string, req dto.PatchVehicleRequest, requestingUserID string) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicle for patch: %w", err)
	}
	if req.IsEmpty() {
		return vehicle, nil
	}

	if req.Preco != nil {
		priceUSD, err := s.toUSD(ctx, *req.Preco)
		if err != nil {
			return nil, err
		}
		vehicle.PriceUSD = priceUSD
	}
	if req.Placa != nil {
		vehicle.Plate = normalizePlate(*req.Placa)
	}
	if req.Marca != nil {
		vehicle.Brand = strings.TrimSpace(*req.Marca)
	}
	if req.Modelo != nil {
		vehicle.Model = strings.TrimSpace(*req.Modelo)
	}
	if req.Ano != nil {
		vehicle.Year = *req.Ano
	}
	if req.Cor != nil {
		vehicle.Color = strings.TrimSpace(*req.Cor)
	}
	if req.Descricao != nil {
		vehicle.Description = req.Descricao
	}
	vehicle.LastUpdatedAt = s.now()
	vehicle.LastUpdatedBy = requestingUserID

	if err := s.vehicleRepo.UpdateVehicle(ctx, *vehicle); err != nil {
		return nil, s.wrapWriteError(ctx, err, vehicle.Plate, "patch")
	}

	s.LogInfo(ctx, "Vehicle patched", slog.String("vehicle_id", vehicleID))
	return vehicle, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, vehicleID string, requestingUserID string) error {
	if err := s.vehicleRepo.MarkVehicleDeleted(ctx, vehicleID, s.now(), requestingUserID); err != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", vehicleID, err)
	}
	s.LogInfo(ctx, "Vehicle deleted", slog.String("vehicle_id", vehicleID))
	return nil
}

func (s *vehicleService) wrapWriteError(ctx context.Context, err error, plate, op string) error {
	if errors.Is(err, apperrors.ErrDuplicate) {
		return apperrors.NewAppError(http.StatusConflict, fmt.Sprintf("vehicle with plate %s already exists", plate), err)
	}
	s.LogError(ctx, err, "Failed to persist vehicle", slog.String("operation", op))
	return fmt.Errorf("failed to %s vehicle: %w", op, err)
}
