// Package glyph keeps the registry of renderable glyphs. Each glyph gets a
// small integer id; that id is what marker tags embed in message text.
// The registry never interprets a handle beyond handing it back.
package glyph
