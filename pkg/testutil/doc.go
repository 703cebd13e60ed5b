// Package testutil sets up glyphs test environments: a config dir holding
// a manifest and its assets, and a state dir, either in memory or on disk.
package testutil
