// Package state tracks which names are enabled and which have resizing
// enabled. Both flags default to on; only the exceptions are stored, as
// comma-joined sets in the persistent key-value store.
//
// A Store is generic over where its two strings live, so the same type
// serves trigger-level and folder-level preferences.
package state
