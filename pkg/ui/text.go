package ui

import (
	"fmt"
	"io"
	"strings"
)

type textRenderer struct {
	w io.Writer
}

func (r *textRenderer) RenderText(text string) error {
	_, err := fmt.Fprintln(r.w, text)
	return err
}

func (r *textRenderer) RenderTriggers(rows []TriggerRow) error {
	for _, row := range rows {
		_, err := fmt.Fprintf(r.w, "%s\t%s\t%d\t%t\t%t\t%t\n",
			row.Name, row.Folder, row.MarkerID, row.Enabled, row.Resizing, row.HasAudio)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) RenderChanged(action string, names []string) error {
	_, err := fmt.Fprintf(r.w, "%s: %s\n", action, strings.Join(names, ","))
	return err
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, msg)
	return err
}

func (r *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.w, "Error: %s\n", err)
	return werr
}
