// Package fanout implements the daily notification run: it picks one note
// per user with a deterministic day-of-year round-robin, composes a push
// payload and delivers it to every device the user registered, pruning
// subscriptions the push service reports as gone.
//
// The run keeps no delivery ledger. Idempotency within a calendar day comes
// from the selector being a pure function of (date, ordered note list), so
// re-triggering the run sends the same note again rather than a different
// one.
package fanout
