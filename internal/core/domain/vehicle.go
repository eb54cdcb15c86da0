package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle is a registered vehicle. PriceUSD is always stored in US dollars;
// prices submitted in BRL are converted before the vehicle is persisted.
type Vehicle struct {
	VehicleID   string          `json:"id"`
	Plate       string          `json:"placa"`
	Brand       string          `json:"marca"`
	Model       string          `json:"modelo"`
	Year        int             `json:"ano"`
	Color       string          `json:"cor"`
	PriceUSD    decimal.Decimal `json:"preco"`
	Description *string         `json:"descricao,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// BrandCount is one row of the vehicles-per-brand report.
type BrandCount struct {
	Brand string `json:"marca"`
	Count int64  `json:"quantidade"`
}

// VehicleSortField is a column vehicles can be ordered by.
type VehicleSortField string

const (
	SortByPrice     VehicleSortField = "preco"
	SortByYear      VehicleSortField = "ano"
	SortByBrand     VehicleSortField = "marca"
	SortByCreatedAt VehicleSortField = "created_at"
	SortByUpdatedAt VehicleSortField = "updated_at"
)

// IsValid reports whether f is a supported sort field.
func (f VehicleSortField) IsValid() bool {
	switch f {
	case SortByPrice, SortByYear, SortByBrand, SortByCreatedAt, SortByUpdatedAt:
		return true
	}
	return false
}

// VehicleFilter narrows and orders a vehicle listing. Nil fields are not applied.
type VehicleFilter struct {
	Brand    *string
	Year     *int
	Color    *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   VehicleSortField
	SortDesc bool
	Limit    int
	Offset   int
}
