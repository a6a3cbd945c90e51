// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces, using pgx through database/sql, together with the embedded goose
// migrations that create their schema.
package postgres
