package substitute

import (
	"regexp"
	"testing"

	"github.com/arthur-debert/glyphs/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture: A=0, B=1 (zero width 2), C=3, bruh=4 with sound
func newFixture(t *testing.T, disabled ...string) (*Engine, *trigger.Index) {
	t.Helper()
	idx, err := trigger.NewIndex([]trigger.Entry{
		{Name: "A", MarkerID: 0},
		{Name: "B", MarkerID: 1, ZeroWidthID: 2, HasZeroWidth: true},
		{Name: "C", MarkerID: 3},
		{Name: "bruh", MarkerID: 4, HasAudio: true},
	})
	require.NoError(t, err)
	audio, err := trigger.NewAudioIndex([]trigger.Sound{{Name: "bruh", Path: "bruh.wav"}})
	require.NoError(t, err)

	off := make(map[string]bool)
	for _, name := range disabled {
		off[name] = true
	}
	gate := GateFunc(func(e *trigger.Entry) bool { return !off[e.Name] })
	return New(idx, audio, gate), idx
}

func TestEncode(t *testing.T) {
	engine, _ := newFixture(t)

	tests := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{"no triggers", "hello there", "hello there", false},
		{"single trigger", "nice A", "nice <marker=0>", true},
		{"case insensitive", "a", "<marker=0>", true},
		{"zero width after marker", "A B", "<marker=0> <marker=2>", true},
		{"primary after plain word", "x B", "x <marker=1>", true},
		{"chain through zero width", "B B", "<marker=1> <marker=2>", true},
		{"existing tag counts as marker", "<marker=9> B", "<marker=9> <marker=2>", true},
		{"markup preserved", "<col=ff0000>A</col>", "<col=ff0000><marker=0></col>", true},
		{"empty words kept when unchanged", "hi  there", "hi  there", false},
		{"nbsp splits words", "x\u00a0A", "x <marker=0>", true},
		{"punctuation is not stripped", "A!", "A!", false},
		{"emphasis kept around tag", "*A*", "*<marker=0>*", true},
		{"bare asterisks untouched", "** *", "** *", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Encode(tt.in, Options{})
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, tt.changed, res.Changed)
		})
	}
}

func TestEncode_Idempotent(t *testing.T) {
	engine, _ := newFixture(t)

	for _, in := range []string{"A B C", "x B bruh", "<u>A</u> B", "*bruh*"} {
		first := engine.Encode(in, Options{Silent: true})
		second := engine.Encode(first.Text, Options{Silent: true})
		assert.False(t, second.Changed, in)
		assert.Equal(t, first.Text, second.Text, in)
	}
}

func TestEncode_DisabledIsInert(t *testing.T) {
	engine, _ := newFixture(t, "A")

	res := engine.Encode("A B", Options{})
	assert.Equal(t, "A <marker=1>", res.Text)
}

func TestEncode_Audio(t *testing.T) {
	engine, _ := newFixture(t)

	t.Run("fires once per word", func(t *testing.T) {
		res := engine.Encode("bruh and BRUH", Options{})
		assert.Equal(t, "*<marker=4>* and *<marker=4>*", res.Text)
		require.Len(t, res.Sounds, 2)
		assert.Equal(t, "bruh.wav", res.Sounds[0].Path)
	})

	t.Run("silent pass still wraps", func(t *testing.T) {
		res := engine.Encode("bruh", Options{Silent: true})
		assert.Equal(t, "*<marker=4>*", res.Text)
		assert.Empty(t, res.Sounds)
	})

	t.Run("wraps candidate when image disabled", func(t *testing.T) {
		engine, _ := newFixture(t, "bruh")
		res := engine.Encode("bruh", Options{})
		assert.Equal(t, "*bruh*", res.Text)
		assert.Len(t, res.Sounds, 1)

		again := engine.Encode(res.Text, Options{Silent: true})
		assert.False(t, again.Changed, "wrap is not applied twice")
	})

	t.Run("wrapped word gains its tag once enabled", func(t *testing.T) {
		res := engine.Encode("*bruh*", Options{Silent: true})
		assert.Equal(t, "*<marker=4>*", res.Text)
	})
}

func TestDecode(t *testing.T) {
	engine, idx := newFixture(t)

	t.Run("round trip", func(t *testing.T) {
		in := "A B and C"
		encoded := engine.Encode(in, Options{Silent: true})
		decoded, changed := Decode(encoded.Text, idx.Entries(), "?")
		assert.True(t, changed)
		assert.Equal(t, in, decoded)
	})

	t.Run("round trip with sound triggers", func(t *testing.T) {
		for _, in := range []string{"say bruh", "A bruh B", "bruh bruh", "*bruh* and A"} {
			encoded := engine.Encode(in, Options{Silent: true})
			decoded, changed := Decode(encoded.Text, idx.Entries(), "?")
			require.True(t, changed, in)

			again := engine.Encode(decoded, Options{Silent: true})
			assert.Equal(t, encoded.Text, again.Text, in)
			assert.Empty(t, again.Sounds, in)
		}
	})

	t.Run("decoded sound trigger re-encodes once", func(t *testing.T) {
		encoded := engine.Encode("say bruh", Options{})
		require.Equal(t, "say *<marker=4>*", encoded.Text)

		decoded, _ := Decode(encoded.Text, idx.Entries(), "?")
		assert.Equal(t, "say *bruh*", decoded)

		again := engine.Encode(decoded, Options{})
		assert.Equal(t, "say *<marker=4>*", again.Text)
		assert.Len(t, again.Sounds, 1)
	})

	t.Run("only reverts given entries", func(t *testing.T) {
		a, _ := idx.ByName("A")
		out, changed := Decode("<marker=0> <marker=3> <marker=30>", []*trigger.Entry{a}, "?")
		assert.True(t, changed)
		assert.Equal(t, "A <marker=3> <marker=30>", out)
	})

	t.Run("zero width tag", func(t *testing.T) {
		b, _ := idx.ByName("B")
		out, _ := Decode("<marker=2>", []*trigger.Entry{b}, "?")
		assert.Equal(t, "B", out)
	})

	t.Run("placeholder for nameless entry", func(t *testing.T) {
		out, _ := Decode("<marker=7>", []*trigger.Entry{{MarkerID: 7}}, "?")
		assert.Equal(t, "?", out)
	})

	t.Run("no tags", func(t *testing.T) {
		out, changed := Decode("plain", idx.Entries(), "?")
		assert.False(t, changed)
		assert.Equal(t, "plain", out)
	})
}

func TestDecodeTags(t *testing.T) {
	names := map[int]string{0: "A"}
	lookup := func(id int) (string, bool) {
		name, ok := names[id]
		return name, ok
	}

	out, changed := DecodeTags("<marker=0> <marker=5>", lookup, "?")
	assert.True(t, changed)
	assert.Equal(t, "A ?", out)
}

func TestShouldFilter(t *testing.T) {
	tests := []struct {
		name     string
		disabled []string
		in       string
		lenient  bool
		strict   bool
	}{
		{"some disabled", []string{"A", "B"}, "A B C", true, false},
		{"all disabled", []string{"A", "B"}, "A B", true, true},
		{"nothing disabled", nil, "A B", false, false},
		{"unknown words only", []string{"A"}, "hello there", false, false},
		{"empty message", []string{"A"}, "", false, false},
		{"punctuation and markup stripped", []string{"A"}, "<b>A!</b>", true, true},
		{"numeric tokens skipped", []string{"A"}, "A 42 x7", true, true},
		{"strict short-circuits on early keeper", []string{"A", "B"}, "hi A B", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newFixture(t, tt.disabled...)
			assert.Equal(t, tt.lenient, engine.ShouldFilter(tt.in, false), "lenient")
			assert.Equal(t, tt.strict, engine.ShouldFilter(tt.in, true), "strict")
		})
	}
}

func TestShouldFilter_SkipPattern(t *testing.T) {
	idx, err := trigger.NewIndex([]trigger.Entry{{Name: "A"}})
	require.NoError(t, err)
	off := GateFunc(func(*trigger.Entry) bool { return false })

	engine := New(idx, nil, off, WithSkipPattern(nil))
	assert.False(t, engine.ShouldFilter("A 42", true))

	engine = New(idx, nil, off, WithSkipPattern(regexp.MustCompile(`^x`)))
	assert.True(t, engine.ShouldFilter("A xyz", true))
}

func TestEngine_NilIndexes(t *testing.T) {
	engine := New(nil, nil, nil)
	res := engine.Encode("A B", Options{})
	assert.False(t, res.Changed)
	assert.False(t, engine.ShouldFilter("A", true))
}
