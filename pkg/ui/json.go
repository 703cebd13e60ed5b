package ui

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/marker"
)

type jsonRenderer struct {
	encoder *json.Encoder
}

func newJSONRenderer(w io.Writer) *jsonRenderer {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &jsonRenderer{encoder: encoder}
}

func (r *jsonRenderer) RenderText(text string) error {
	ids := marker.IDs(text)
	if ids == nil {
		ids = []int{}
	}
	return r.encoder.Encode(map[string]interface{}{
		"text":    text,
		"markers": ids,
	})
}

func (r *jsonRenderer) RenderTriggers(rows []TriggerRow) error {
	if rows == nil {
		rows = []TriggerRow{}
	}
	return r.encoder.Encode(rows)
}

func (r *jsonRenderer) RenderChanged(action string, names []string) error {
	if names == nil {
		names = []string{}
	}
	return r.encoder.Encode(map[string]interface{}{
		"action":  action,
		"changed": names,
	})
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}

func (r *jsonRenderer) RenderError(err error) error {
	obj := map[string]interface{}{"error": err.Error()}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		obj["code"] = code
	}
	return r.encoder.Encode(obj)
}
