package records

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/models"
)

const columns = `id, timestamp, street, location, zipcode, latitude, longitude, altitude, vertical_accuracy, horizontal_accuracy, view_radius, photo_reference`

type scanner interface {
	Scan(dest ...any) error
}

// scanFunc reads one locations row; dialects differ in how the timestamp
// column is stored.
type scanFunc func(s scanner) (models.LocationRecord, error)

func queryOne(row *sql.Row, scan scanFunc) (*models.LocationRecord, error) {
	r, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &r, nil
}

func queryMany(rows *sql.Rows, scan scanFunc) ([]models.LocationRecord, error) {
	defer rows.Close()

	var result []models.LocationRecord
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate location rows: %w", err)
	}
	return result, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan photo reference: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photo references: %w", err)
	}
	return refs, nil
}

func expectOneRow(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}
