// Package records persists LocationRecord rows in the "locations" table.
// Implementations exist for SQLite (local default) and PostgreSQL.
package records
