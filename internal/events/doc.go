// Package events decouples request handling from background work: services
// emit task request events without importing the task package, and the task
// layer registers handlers that turn those events into queued jobs.
package events
