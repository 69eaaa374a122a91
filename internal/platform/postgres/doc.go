// Package postgres implements the internal/store interfaces over PostgreSQL,
// including the conditional summary write the background pipeline relies on
// and the endpoint-unique subscription upsert. It also carries the embedded
// schema migrations.
package postgres
