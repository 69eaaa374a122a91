// Package config loads and validates application settings from environment
// variables (NOTEFLOW_ prefix) and an optional config.yaml, exposing them as
// typed sections per subsystem.
package config
