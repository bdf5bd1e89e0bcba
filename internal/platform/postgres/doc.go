// Package postgres implements the store interfaces on PostgreSQL using
// database/sql with the pgx driver. It owns the translation of raw
// constraint violations into the store error taxonomy so that no caller
// above this package ever matches on driver error codes.
package postgres
