package processor

import "github.com/arthur-debert/glyphs/pkg/trigger"

// Message is one buffered chat line owned by a MessageStore
type Message interface {
	ID() string
	Category() string
	Text() string
	SetText(text string) error
}

// MessageStore exposes the buffered messages the processor rewrites
type MessageStore interface {
	// Messages returns the currently visible messages, oldest first
	Messages() []Message
	// Eligible reports whether messages of category may be rewritten
	Eligible(category string) bool
	// Refresh asks the display to redraw; called once per batch pass
	Refresh()
}

// SoundPlayer plays sounds fired by incoming messages
type SoundPlayer interface {
	Play(sound trigger.Sound)
}

// SoundPlayerFunc adapts a function to SoundPlayer
type SoundPlayerFunc func(sound trigger.Sound)

// Play calls f
func (f SoundPlayerFunc) Play(sound trigger.Sound) { f(sound) }
