package dto

import (
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	"github.com/SscSPs/vehicle_registry_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// CreateVehicleRequest registers a vehicle. Preco is in BRL.
type CreateVehicleRequest struct {
	Placa     string          `json:"placa" binding:"required,min=7,max=10,placa"`
	Marca     string          `json:"marca" binding:"required,min=1,max=50"`
	Modelo    string          `json:"modelo" binding:"required,min=1,max=100"`
	Ano       int             `json:"ano" binding:"required,gte=1900,lte=2100"`
	Cor       string          `json:"cor" binding:"required,min=1,max=30"`
	Preco     decimal.Decimal `json:"preco" binding:"required,gt=0"`
	Descricao *string         `json:"descricao" binding:"omitempty,max=500"`
}

// UpdateVehicleRequest replaces every field of a vehicle. Preco is in BRL.
type UpdateVehicleRequest CreateVehicleRequest

// PatchVehicleRequest changes only the fields that are present. Preco is in BRL.
type PatchVehicleRequest struct {
	Placa     *string          `json:"placa" binding:"omitempty,min=7,max=10,placa"`
	Marca     *string          `json:"marca" binding:"omitempty,min=1,max=50"`
	Modelo    *string          `json:"modelo" binding:"omitempty,min=1,max=100"`
	Ano       *int             `json:"ano" binding:"omitempty,gte=1900,lte=2100"`
	Cor       *string          `json:"cor" binding:"omitempty,min=1,max=30"`
	Preco     *decimal.Decimal `json:"preco" binding:"omitempty,gt=0"`
	Descricao *string          `json:"descricao" binding:"omitempty,max=500"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p PatchVehicleRequest) IsEmpty() bool {
	return p.Placa == nil && p.Marca == nil && p.Modelo == nil && p.Ano == nil &&
		p.Cor == nil && p.Preco == nil && p.Descricao == nil
}

// ListVehiclesParams defines query parameters for listing vehicles.
// MinPreco and MaxPreco are compared against the stored USD price.
type ListVehiclesParams struct {
	Marca     *string          `form:"marca"`
	Ano       *int             `form:"ano"`
	Cor       *string          `form:"cor"`
	MinPreco  *decimal.Decimal `form:"minPreco" binding:"omitempty,gte=0"`
	MaxPreco  *decimal.Decimal `form:"maxPreco" binding:"omitempty,gte=0"`
	Page      int              `form:"page,default=1" binding:"min=1"`
	PageSize  int              `form:"pageSize,default=10" binding:"min=1,max=100"`
	SortBy    string           `form:"sortBy,default=created_at" binding:"oneof=preco ano marca created_at updated_at"`
	SortOrder string           `form:"sortOrder,default=asc" binding:"oneof=asc desc"`
}

// VehicleResponse is the public view of a vehicle. Preco is in USD.
type VehicleResponse struct {
	ID            string          `json:"id"`
	Placa         string          `json:"placa"`
	Marca         string          `json:"marca"`
	Modelo        string          `json:"modelo"`
	Ano           int             `json:"ano"`
	Cor           string          `json:"cor"`
	Preco         decimal.Decimal `json:"preco"`
	Descricao     *string         `json:"descricao,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"updatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ListVehiclesResponse is one page of vehicles.
type ListVehiclesResponse struct {
	Veiculos   []VehicleResponse `json:"veiculos"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	Total      int64             `json:"total"`
	TotalPages int64             `json:"totalPages"`
}

// BrandReportEntry is one line of the per-brand report.
type BrandReportEntry struct {
	Marca      string `json:"marca"`
	Quantidade int64  `json:"quantidade"`
}

// ToVehicleResponse converts a domain.Vehicle to its response DTO.
func ToVehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:            v.VehicleID,
		Placa:         v.Plate,
		Marca:         v.Brand,
		Modelo:        v.Model,
		Ano:           v.Year,
		Cor:           v.Color,
		Preco:         v.PriceUSD,
		Descricao:     v.Description,
		CreatedAt:     v.CreatedAt,
		CreatedBy:     v.CreatedBy,
		LastUpdatedAt: v.LastUpdatedAt,
		LastUpdatedBy: v.LastUpdatedBy,
	}
}

// ToListVehiclesResponse builds a page response.
func ToListVehiclesResponse(vehicles []domain.Vehicle, page, pageSize int, total int64) ListVehiclesResponse {
	resp := ListVehiclesResponse{
		Veiculos:   make([]VehicleResponse, len(vehicles)),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pagination.TotalPages(total, pageSize),
	}
	for i := range vehicles {
		resp.Veiculos[i] = ToVehicleResponse(&vehicles[i])
	}
	return resp
}

// ToBrandReport converts report rows to response DTOs.
func ToBrandReport(rows []domain.BrandCount) []BrandReportEntry {
	out := make([]BrandReportEntry, len(rows))
	for i, r := range rows {
		out[i] = BrandReportEntry{Marca: r.Brand, Quantidade: r.Count}
	}
	return out
}
