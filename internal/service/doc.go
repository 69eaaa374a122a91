// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features: account
// management, note management with asynchronous summary dispatch, and push
// subscription management.
//
// Services receive dependencies through constructor injection and depend on
// domain entities and store interfaces, never on concrete infrastructure,
// keeping the dependency direction pointing inward.
//
// Error handling follows the sentinel-error pattern: expected conditions are
// surfaced as package-level errors that callers check with errors.Is, and
// the API layer maps them to HTTP status codes. Unexpected errors are
// wrapped with operation context.
package service
