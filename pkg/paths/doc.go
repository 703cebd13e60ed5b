// Package paths provides centralized path handling for glyphs.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for every file the tool reads or writes.
package paths
