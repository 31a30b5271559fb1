// Package db provides the embedded PostgreSQL schema for the optional SQL
// backend.
package db

import _ "embed"

// Schema contains the DDL statements for the inventory and payment-history
// tables.
//
//go:embed migrations/001_schema.sql
var Schema string
