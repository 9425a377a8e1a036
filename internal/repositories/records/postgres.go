package records

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/snaplocation/internal/dbx"
	"github.com/dmitrijs2005/snaplocation/internal/models"
)

// PostgresRepository implements Repository on PostgreSQL through the pgx
// stdlib driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPostgres(s scanner) (models.LocationRecord, error) {
	var r models.LocationRecord
	err := s.Scan(&r.ID, &r.Timestamp, &r.Street, &r.Location, &r.Zipcode, &r.Latitude, &r.Longitude,
		&r.Altitude, &r.VerticalAccuracy, &r.HorizontalAccuracy, &r.ViewRadius, &r.PhotoReference)
	return r, err
}

func (r *PostgresRepository) Insert(ctx context.Context, rec *models.LocationRecord) error {
	query := `INSERT INTO locations (` + columns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Timestamp, rec.Street, rec.Location, rec.Zipcode, rec.Latitude, rec.Longitude,
		rec.Altitude, rec.VerticalAccuracy, rec.HorizontalAccuracy, rec.ViewRadius, rec.PhotoReference)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.LocationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return queryMany(rows, scanPostgres)
}

func (r *PostgresRepository) GetAt(ctx context.Context, index int) (*models.LocationRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM locations ORDER BY id LIMIT 1 OFFSET $1`, index)
	return queryOne(row, scanPostgres)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.LocationRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM locations WHERE id = $1`, id)
	return queryOne(row, scanPostgres)
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) MaxID(ctx context.Context) (int64, bool, error) {
	var id sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(id) FROM locations`).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("db error: %w", err)
	}
	return id.Int64, id.Valid, nil
}

func (r *PostgresRepository) PhotoReferences(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT photo_reference FROM locations WHERE photo_reference <> '' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanStrings(rows)
}
