// Package config handles configuration management for glyphs.
// It layers embedded TOML defaults, the user's config file and
// GLYPHS_ environment variables, and validates the result.
package config
