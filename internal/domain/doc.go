// Package domain holds the entities of the system: users, their notes with
// AI-generated summaries, and the push subscriptions notifications go to.
// Entities validate themselves and carry no persistence or transport
// concerns.
package domain
