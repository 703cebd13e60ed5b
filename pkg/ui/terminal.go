package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/glyphs/pkg/marker"
	"github.com/pterm/pterm"
)

type terminalRenderer struct {
	w     io.Writer
	names NameFunc
}

// Styled replaces marker tags with styled [Name] labels
func Styled(text string, names NameFunc) string {
	return marker.ReplaceTags(text, func(id int) string {
		if name, ok := names(id); ok {
			return MarkerStyle.Render("[" + name + "]")
		}
		return UnknownMarkerStyle.Render("[#" + strconv.Itoa(id) + "]")
	})
}

func (r *terminalRenderer) RenderText(text string) error {
	_, err := fmt.Fprintln(r.w, Styled(text, r.names))
	return err
}

func (r *terminalRenderer) RenderTriggers(rows []TriggerRow) error {
	if len(rows) == 0 {
		return r.RenderMessage("No triggers loaded")
	}

	data := pterm.TableData{{"Trigger", "Folder", "Marker", "Enabled", "Resize", "Sound"}}
	for _, row := range rows {
		id := strconv.Itoa(row.MarkerID)
		if row.HasZeroWidth {
			id += "/" + strconv.Itoa(row.ZeroWidthID)
		}
		data = append(data, []string{
			row.Name,
			row.Folder,
			id,
			flag(row.Enabled),
			flag(row.Resizing),
			flag(row.HasAudio),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(r.w).WithData(data).Render()
}

func flag(on bool) string {
	if on {
		return SuccessStyle.Render("yes")
	}
	return MutedStyle.Render("no")
}

func (r *terminalRenderer) RenderChanged(action string, names []string) error {
	if len(names) == 0 {
		return r.RenderMessage("Nothing changed")
	}
	_, err := fmt.Fprintf(r.w, "%s %s\n", SuccessStyle.Render(action), strings.Join(names, ", "))
	return err
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, MutedStyle.Render(msg))
	return err
}

func (r *terminalRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.w, ErrorStyle.Render("Error: ")+err.Error())
	return werr
}
