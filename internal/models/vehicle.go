package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle is the row stored in the vehicles table. PriceUSD maps to a NUMERIC column.
type Vehicle struct {
	VehicleID   string          `db:"vehicle_id"`
	Plate       string          `db:"placa"`
	Brand       string          `db:"marca"`
	Model       string          `db:"modelo"`
	Year        int             `db:"ano"`
	Color       string          `db:"cor"`
	PriceUSD    decimal.Decimal `db:"preco_usd"`
	Description sql.NullString  `db:"descricao"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
