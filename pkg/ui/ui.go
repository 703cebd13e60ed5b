// Package ui renders glyphs output in terminal, text or JSON form.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/glyphs/pkg/errors"
)

// NameFunc resolves a marker id to its trigger name
type NameFunc func(id int) (string, bool)

// TriggerRow is one line of a trigger listing
type TriggerRow struct {
	Name         string `json:"name"`
	Folder       string `json:"folder,omitempty"`
	MarkerID     int    `json:"marker_id"`
	ZeroWidthID  int    `json:"zero_width_id,omitempty"`
	HasZeroWidth bool   `json:"has_zero_width"`
	HasAudio     bool   `json:"has_audio"`
	Enabled      bool   `json:"enabled"`
	Resizing     bool   `json:"resizing"`
}

// Renderer is implemented by every output format
type Renderer interface {
	// RenderText prints one encoded line
	RenderText(text string) error
	// RenderTriggers prints a trigger listing
	RenderTriggers(rows []TriggerRow) error
	// RenderChanged reports the names a toggle changed
	RenderChanged(action string, names []string) error
	RenderMessage(msg string) error
	RenderError(err error) error
}

// NewRenderer creates the renderer for format. names may be nil.
func NewRenderer(format Format, output io.Writer, names NameFunc) (Renderer, error) {
	if names == nil {
		names = func(int) (string, bool) { return "", false }
	}
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output, names)
		}
		return NewRenderer(FormatText, output, names)
	case FormatTerminal:
		return &terminalRenderer{w: output, names: names}, nil
	case FormatText:
		return &textRenderer{w: output}, nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
