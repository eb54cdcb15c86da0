package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/apperrors"
	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	portsrepo "github.com/SscSPs/vehicle_registry_app/internal/core/ports/repositories"
	"github.com/SscSPs/vehicle_registry_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxVehicleRepository struct {
	BaseRepository
}

func newPgxVehicleRepository(db *pgxpool.Pool) portsrepo.VehicleRepositoryFacade {
	return &PgxVehicleRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.VehicleRepositoryFacade = (*PgxVehicleRepository)(nil)

const vehicleColumns = `vehicle_id, placa, marca, modelo, ano, cor, preco_usd, descricao, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

// sortColumns whitelists the ORDER BY expressions a filter may ask for.
var sortColumns = map[domain.VehicleSortField]string{
	domain.SortByPrice:     "preco_usd",
	domain.SortByYear:      "ano",
	domain.SortByBrand:     "marca",
	domain.SortByCreatedAt: "created_at",
	domain.SortByUpdatedAt: "last_updated_at",
}

func toModelVehicle(d domain.Vehicle) models.Vehicle {
	m := models.Vehicle{
		VehicleID: d.VehicleID,
		Plate:     d.Plate,
		Brand:     d.Brand,
		Model:     d.Model,
		Year:      d.Year,
		Color:     d.Color,
		PriceUSD:  d.PriceUSD,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
		DeletedAt: d.DeletedAt,
	}
	if d.Description != nil {
		m.Description = sql.NullString{String: *d.Description, Valid: true}
	}
	return m
}

func toDomainVehicle(m models.Vehicle) domain.Vehicle {
	d := domain.Vehicle{
		VehicleID: m.VehicleID,
		Plate:     m.Plate,
		Brand:     m.Brand,
		Model:     m.Model,
		Year:      m.Year,
		Color:     m.Color,
		PriceUSD:  m.PriceUSD,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		DeletedAt: m.DeletedAt,
	}
	if m.Description.Valid {
		desc := m.Description.String
		d.Description = &desc
	}
	return d
}

func scanVehicle(row pgx.Row) (models.Vehicle, error) {
	var m models.Vehicle
	err := row.Scan(
		&m.VehicleID,
		&m.Plate,
		&m.Brand,
		&m.Model,
		&m.Year,
		&m.Color,
		&m.PriceUSD,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxVehicleRepository) SaveVehicle(ctx context.Context, vehicle domain.Vehicle) error {
	m := toModelVehicle(vehicle)
	query := `
        INSERT INTO vehicles (vehicle_id, placa, marca, modelo, ano, cor, preco_usd, descricao, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.VehicleID,
		m.Plate,
		m.Brand,
		m.Model,
		m.Year,
		m.Color,
		m.PriceUSD,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: vehicle with plate %s", apperrors.ErrDuplicate, m.Plate)
		}
		return fmt.Errorf("failed to save vehicle %s: %w", m.VehicleID, err)
	}
	return nil
}

func (r *PgxVehicleRepository) UpdateVehicle(ctx context.Context, vehicle domain.Vehicle) error {
	m := toModelVehicle(vehicle)
	query := `
        UPDATE vehicles
        SET placa = $1, marca = $2, modelo = $3, ano = $4, cor = $5, preco_usd = $6, descricao = $7,
            last_updated_at = $8, last_updated_by = $9
        WHERE vehicle_id = $10 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Plate,
		m.Brand,
		m.Model,
		m.Year,
		m.Color,
		m.PriceUSD,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.VehicleID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: vehicle with plate %s", apperrors.ErrDuplicate, m.Plate)
		}
		return fmt.Errorf("failed to update vehicle %s: %w", m.VehicleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %s not found or already deleted: %w", m.VehicleID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxVehicleRepository) FindVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE vehicle_id = $1 AND deleted_at IS NULL;`
	m, err := scanVehicle(r.Pool.QueryRow(ctx, query, vehicleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("vehicle with ID " + vehicleID + " not found")
		}
		return nil, fmt.Errorf("failed to find vehicle %s: %w", vehicleID, err)
	}
	vehicle := toDomainVehicle(m)
	return &vehicle, nil
}

// buildVehicleWhere renders the filter as a WHERE clause with numbered placeholders.
func buildVehicleWhere(filter domain.VehicleFilter) (string, []any) {
	clauses := []string{"deleted_at IS NULL"}
	args := []any{}
	add := func(expr string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(expr, len(args)))
	}

	if filter.Brand != nil {
		add("marca = $%d", *filter.Brand)
	}
	if filter.Year != nil {
		add("ano = $%d", *filter.Year)
	}
	if filter.Color != nil {
		add("cor = $%d", *filter.Color)
	}
	if filter.MinPrice != nil {
		add("preco_usd >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("preco_usd <= $%d", *filter.MaxPrice)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildVehicleOrder falls back to created_at for unknown fields. vehicle_id
// breaks ties so pages are stable.
func buildVehicleOrder(filter domain.VehicleFilter) string {
	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[domain.SortByCreatedAt]
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, vehicle_id ASC", column, direction)
}

func (r *PgxVehicleRepository) FindVehicles(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, int64, error) {
	where, args := buildVehicleWhere(filter)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM vehicles"+where, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count vehicles", err)
	}
	if total == 0 {
		return []domain.Vehicle{}, 0, nil
	}

	query := "SELECT " + vehicleColumns + " FROM vehicles" + where + buildVehicleOrder(filter)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list vehicles", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		m, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan vehicle", err)
		}
		vehicles = append(vehicles, toDomainVehicle(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating vehicles", err)
	}
	rows.Close()

	if err := r.Commit(ctx, tx); err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

func (r *PgxVehicleRepository) CountVehiclesByBrand(ctx context.Context) ([]domain.BrandCount, error) {
	query := `
        SELECT marca, COUNT(*) AS quantidade
        FROM vehicles
        WHERE deleted_at IS NULL
        GROUP BY marca
        ORDER BY marca ASC;
    `
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query brand report: %w", err)
	}
	defer rows.Close()

	report := []domain.BrandCount{}
	for rows.Next() {
		var row domain.BrandCount
		if err := rows.Scan(&row.Brand, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan brand report row: %w", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brand report rows: %w", err)
	}
	return report, nil
}

func (r *PgxVehicleRepository) MarkVehicleDeleted(ctx context.Context, vehicleID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE vehicles
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE vehicle_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, vehicleID)
	if err != nil {
		return fmt.Errorf("failed to mark vehicle as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %s not found or already deleted: %w", vehicleID, apperrors.ErrNotFound)
	}
	return nil
}
