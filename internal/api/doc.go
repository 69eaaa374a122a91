// Package api contains the HTTP handlers: decoding and validating requests,
// invoking services, and mapping service errors to status codes. It never
// exposes internal error details to clients.
package api
