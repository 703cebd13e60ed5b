// Package marker owns the textual forms embedded in chat messages: the
// glyph marker tag <marker=ID> and the angle-bracket formatting markup
// that may surround a word.
package marker

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	tagOpen  = "<marker="
	tagClose = ">"
)

var (
	tagPattern    = regexp.MustCompile(`<marker=([0-9]+)>`)
	markupPattern = regexp.MustCompile(`<[^<>]*>`)
)

// Tag returns the marker tag for a glyph id
func Tag(id int) string {
	return tagOpen + strconv.Itoa(id) + tagClose
}

// Contains reports whether s holds at least one marker tag
func Contains(s string) bool {
	return tagPattern.MatchString(s)
}

// IDs returns the glyph ids of every marker tag in s, in order
func IDs(s string) []int {
	var ids []int
	for _, m := range tagPattern.FindAllStringSubmatch(s, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ReplaceTags calls fn for every marker tag in s and substitutes its result
func ReplaceTags(s string, fn func(id int) string) string {
	return tagPattern.ReplaceAllStringFunc(s, func(tag string) string {
		id, err := strconv.Atoi(tag[len(tagOpen) : len(tag)-len(tagClose)])
		if err != nil {
			return tag
		}
		return fn(id)
	})
}

// Strip removes all markup, marker tags included
func Strip(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	return markupPattern.ReplaceAllString(s, "")
}

// Segment is a run of a word that is either markup or plain text
type Segment struct {
	Text   string
	Markup bool
}

// Segments splits word into alternating markup and text runs
func Segments(word string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range markupPattern.FindAllStringIndex(word, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: word[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: word[loc[0]:loc[1]], Markup: true})
		last = loc[1]
	}
	if last < len(word) {
		segments = append(segments, Segment{Text: word[last:]})
	}
	return segments
}

// Rewrite replaces the plain text of word with repl, leaving the
// surrounding markup where it was. The replacement takes the place of the
// first text run; later text runs are dropped.
func Rewrite(word, repl string) string {
	var b strings.Builder
	placed := false
	for _, seg := range Segments(word) {
		switch {
		case seg.Markup:
			b.WriteString(seg.Text)
		case !placed:
			b.WriteString(repl)
			placed = true
		}
	}
	if !placed {
		b.WriteString(repl)
	}
	return b.String()
}
