// Package store declares the persistence interfaces the services depend on,
// plus the shared error hierarchy implementations map database failures
// into. Implementations live under internal/platform.
package store
