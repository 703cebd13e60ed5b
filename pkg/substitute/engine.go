package substitute

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/arthur-debert/glyphs/pkg/marker"
	"github.com/arthur-debert/glyphs/pkg/trigger"
)

// DefaultSkipPattern excludes stat-drop and coordinate-like tokens from the filter count
const DefaultSkipPattern = `[0-9]+$`

// Gate decides whether a trigger is currently active
type Gate interface {
	Enabled(entry *trigger.Entry) bool
}

// GateFunc adapts a function to Gate
type GateFunc func(entry *trigger.Entry) bool

// Enabled calls f
func (f GateFunc) Enabled(entry *trigger.Entry) bool { return f(entry) }

// AllEnabled treats every trigger as enabled
var AllEnabled Gate = GateFunc(func(*trigger.Entry) bool { return true })

// Options tune one encode pass
type Options struct {
	// Silent suppresses sound events; re-renders caused by state or asset
	// changes are silent so sounds are not replayed
	Silent bool
}

// Result is the outcome of an encode pass
type Result struct {
	Text    string
	Changed bool
	Sounds  []trigger.Sound
}

// Engine applies one trigger index
type Engine struct {
	index *trigger.Index
	audio *trigger.AudioIndex
	gate  Gate
	skip  *regexp.Regexp
}

// Option configures an Engine
type Option func(*Engine)

// WithSkipPattern replaces the filter's skip heuristic; nil disables it
func WithSkipPattern(re *regexp.Regexp) Option {
	return func(e *Engine) { e.skip = re }
}

// New creates an engine. Either index may be nil.
func New(index *trigger.Index, audio *trigger.AudioIndex, gate Gate, opts ...Option) *Engine {
	if gate == nil {
		gate = AllEnabled
	}
	e := &Engine{
		index: index,
		audio: audio,
		gate:  gate,
		skip:  regexp.MustCompile(DefaultSkipPattern),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Index returns the trigger index the engine applies
func (e *Engine) Index() *trigger.Index { return e.index }

// Audio returns the audio index the engine applies
func (e *Engine) Audio() *trigger.AudioIndex { return e.audio }

// Encode substitutes enabled triggers in text with marker tags. Sound
// triggers are wrapped in asterisks and, unless opts.Silent, reported once
// per matching word. A word already wrapped in one pair of asterisks is
// matched without them and keeps the pair, so decoded text re-encodes to
// the same tags.
func (e *Engine) Encode(text string, opts Options) Result {
	words := splitWords(text)
	res := Result{Text: text}
	prevMarker := false

	for i, word := range words {
		candidate, emphasized := unwrapEmphasis(marker.Strip(word))
		out := word
		rendered := candidate

		if entry, ok := e.index.Lookup(candidate); ok && e.gate.Enabled(entry) {
			id := entry.MarkerID
			if entry.HasZeroWidth && prevMarker {
				id = entry.ZeroWidthID
			}
			rendered = marker.Tag(id)
			out = marker.Rewrite(word, wrap(rendered, emphasized))
			prevMarker = true
		} else {
			prevMarker = marker.Contains(word)
		}

		if sound, ok := e.audio.Lookup(candidate); ok {
			if !opts.Silent {
				res.Sounds = append(res.Sounds, sound)
			}
			out = marker.Rewrite(word, wrap(rendered, true))
		}

		if out != word {
			words[i] = out
			res.Changed = true
		}
	}

	if res.Changed {
		res.Text = strings.Join(words, " ")
	}
	return res
}

// Decode replaces the marker tags of entries with their names, or with
// placeholder for an entry without one. Tags of other triggers are left alone.
func Decode(text string, entries []*trigger.Entry, placeholder string) (string, bool) {
	if !marker.Contains(text) {
		return text, false
	}

	out := text
	for _, entry := range entries {
		name := entry.Name
		if name == "" {
			name = placeholder
		}
		out = strings.ReplaceAll(out, marker.Tag(entry.MarkerID), name)
		if entry.HasZeroWidth {
			out = strings.ReplaceAll(out, marker.Tag(entry.ZeroWidthID), name)
		}
	}
	return out, out != text
}

// DecodeTags replaces every marker tag in text through lookup, falling
// back to placeholder when lookup has no name for an id.
func DecodeTags(text string, lookup func(id int) (string, bool), placeholder string) (string, bool) {
	if !marker.Contains(text) {
		return text, false
	}
	out := marker.ReplaceTags(text, func(id int) string {
		if name, ok := lookup(id); ok && name != "" {
			return name
		}
		return placeholder
	})
	return out, out != text
}

// ShouldFilter reports whether text should be suppressed. Lenient mode
// (requireAll false) filters on the first disabled trigger. Strict mode
// keeps the message at the first counted word that is not a disabled
// trigger, and otherwise filters when every counted word was one.
func (e *Engine) ShouldFilter(text string, requireAll bool) bool {
	words, disabled := 0, 0

	for _, word := range splitWords(text) {
		token := strings.TrimFunc(marker.Strip(word), unicode.IsPunct)
		if token == "" || (e.skip != nil && e.skip.MatchString(token)) {
			continue
		}
		words++

		entry, ok := e.index.Lookup(token)
		if ok && !e.gate.Enabled(entry) {
			disabled++
			if !requireAll {
				return true
			}
			continue
		}
		if requireAll {
			return false
		}
	}

	return requireAll && words > 0 && disabled == words
}

// unwrapEmphasis drops one surrounding *...* pair. The pair is what a
// sound trigger leaves behind once its tag is decoded.
func unwrapEmphasis(candidate string) (string, bool) {
	if len(candidate) > 2 && strings.HasPrefix(candidate, "*") && strings.HasSuffix(candidate, "*") {
		return candidate[1 : len(candidate)-1], true
	}
	return candidate, false
}

func wrap(s string, emphasized bool) string {
	if emphasized {
		return "*" + s + "*"
	}
	return s
}

// splitWords splits on spaces and non-breaking spaces, keeping empty words
// so that runs of spaces survive an unchanged rejoin
func splitWords(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\u00a0", " "), " ")
}
