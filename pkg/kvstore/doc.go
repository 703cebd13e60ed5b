// Package kvstore provides the persistent key-value store glyphs keeps its
// preferences in. Values are plain strings addressed by (group, key).
// Backends: in-memory, a TOML document on an afero filesystem and sqlite.
// A Notifier layers change notifications on top of any backend.
package kvstore
