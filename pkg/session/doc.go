// Package session wires one running glyphs instance: the key-value store
// and its change signal, the trigger and folder state stores, the asset
// loader, the message buffer and the processor loop that ties them
// together.
package session
