package processor

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/glyphs/pkg/config"
	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/kvstore"
	"github.com/arthur-debert/glyphs/pkg/state"
	"github.com/arthur-debert/glyphs/pkg/substitute"
	"github.com/arthur-debert/glyphs/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessage struct {
	id       string
	category string
	text     string
	fail     bool
	writes   int
}

func (m *fakeMessage) ID() string       { return m.id }
func (m *fakeMessage) Category() string { return m.category }
func (m *fakeMessage) Text() string     { return m.text }
func (m *fakeMessage) SetText(text string) error {
	if m.fail {
		return errors.New(errors.ErrMessageUpdate, "read only")
	}
	m.writes++
	m.text = text
	return nil
}

type fakeStore struct {
	messages  []*fakeMessage
	refreshes int
}

func (s *fakeStore) add(category, text string) *fakeMessage {
	m := &fakeMessage{id: fmt.Sprintf("m%d", len(s.messages)), category: category, text: text}
	s.messages = append(s.messages, m)
	return m
}

func (s *fakeStore) Messages() []Message {
	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m
	}
	return out
}

func (s *fakeStore) Eligible(category string) bool { return category == "public" }
func (s *fakeStore) Refresh()                      { s.refreshes++ }

type harness struct {
	store    *fakeStore
	kv       kvstore.Store
	triggers *state.Store
	folders  *state.Store
	proc     *Processor
	played   []string
	reloads  int
	index    *trigger.Index
}

func newHarness(t *testing.T, mode string) *harness {
	t.Helper()
	h := &harness{store: &fakeStore{}, kv: kvstore.NewMemory()}

	var err error
	h.triggers, err = state.New(state.KVAccessors(h.kv, "glyphs"), state.Keys{
		Disabled:         config.KeyDisabledTriggers,
		ResizingDisabled: config.KeyResizingDisabledTriggers,
	})
	require.NoError(t, err)
	h.folders, err = state.New(state.KVAccessors(h.kv, "glyphs"), state.Keys{
		Disabled:         config.KeyDisabledFolders,
		ResizingDisabled: config.KeyResizingDisabledFolders,
	})
	require.NoError(t, err)

	h.proc = New(h.store, Options{
		Group:       "glyphs",
		Placeholder: "?",
		FilterMode:  mode,
		Triggers:    h.triggers,
		Folders:     h.folders,
		Player:      SoundPlayerFunc(func(s trigger.Sound) { h.played = append(h.played, s.Name) }),
		ReloadAssets: func() error {
			h.reloads++
			return nil
		},
	})

	h.index, err = trigger.NewIndex([]trigger.Entry{
		{Name: "A", MarkerID: 0, Folder: "twitch"},
		{Name: "B", MarkerID: 1, ZeroWidthID: 2, HasZeroWidth: true},
		{Name: "bruh", MarkerID: 3, HasAudio: true},
	})
	require.NoError(t, err)
	return h
}

func (h *harness) load(t *testing.T) {
	t.Helper()
	audio, err := trigger.NewAudioIndex([]trigger.Sound{{Name: "bruh"}})
	require.NoError(t, err)
	require.NoError(t, h.proc.AfterLoad(h.index, audio))
}

func TestAfterLoad_AppliesSilently(t *testing.T) {
	h := newHarness(t, config.FilterOff)
	pub := h.store.add("public", "A B bruh")
	game := h.store.add("game", "A B")

	h.load(t)

	assert.Equal(t, "<marker=0> <marker=2> *<marker=3>*", pub.text)
	assert.Equal(t, "A B", game.text)
	assert.Empty(t, h.played)
	assert.Equal(t, 1, h.store.refreshes)
}

func TestApplyAll_WritesOnlyOnChange(t *testing.T) {
	h := newHarness(t, config.FilterOff)
	m := h.store.add("public", "A")
	plain := h.store.add("public", "hello")
	h.load(t)

	require.NoError(t, h.proc.ApplyAll(substitute.Options{Silent: true}))
	assert.Equal(t, 1, m.writes)
	assert.Equal(t, 0, plain.writes)
	assert.Equal(t, 2, h.store.refreshes)
}

func TestBeforeLoad_Reverts(t *testing.T) {
	h := newHarness(t, config.FilterOff)
	m := h.store.add("public", "A B x")
	h.load(t)
	require.NotEqual(t, "A B x", m.text)

	require.NoError(t, h.proc.BeforeLoad())
	assert.Equal(t, "A B x", m.text)
}

func TestRevertAll_IsolatesFailures(t *testing.T) {
	h := newHarness(t, config.FilterOff)
	bad := h.store.add("public", "<marker=0>")
	bad.fail = true
	good := h.store.add("public", "<marker=0>")
	h.load(t)

	err := h.proc.RevertAll(h.index.Entries())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMessageUpdate))
	assert.Equal(t, []string{bad.id}, errors.GetErrorDetails(err)["messages"])
	assert.Equal(t, "A", good.text)
}

func TestTriggersDisabled(t *testing.T) {
	h := newHarness(t, config.FilterOff)
	m := h.store.add("public", "A B")
	h.load(t)
	require.Equal(t, "<marker=0> <marker=2>", m.text)

	_, err := h.triggers.SetEnabled("A", false)
	require.NoError(t, err)
	require.NoError(t, h.proc.TriggersDisabled("A"))

	// only A is reverted; B keeps the tag it was given
	assert.Equal(t, "A <marker=2>", m.text)
}

func TestFoldersDisabled(t *testing.T) {
	h := newHarness(t, config.FilterOff)
	m := h.store.add("public", "x A")
	h.load(t)
	require.Equal(t, "x <marker=0>", m.text)

	_, err := h.folders.SetEnabled("twitch", false)
	require.NoError(t, err)
	require.NoError(t, h.proc.FoldersDisabled("twitch"))
	assert.Equal(t, "x A", m.text)

	_, err = h.folders.SetEnabled("twitch", true)
	require.NoError(t, err)
	require.NoError(t, h.proc.Enabled())
	assert.Equal(t, "x <marker=0>", m.text)
}

func TestReceive(t *testing.T) {
	t.Run("encodes and plays sounds", func(t *testing.T) {
		h := newHarness(t, config.FilterOff)
		h.load(t)

		in := h.proc.Receive("public", "bruh A")
		assert.False(t, in.Filtered)
		assert.True(t, in.Changed)
		assert.Equal(t, "*<marker=3>* <marker=0>", in.Text)
		assert.Equal(t, []string{"bruh"}, h.played)
	})

	t.Run("ineligible category untouched", func(t *testing.T) {
		h := newHarness(t, config.FilterStrict)
		h.load(t)

		in := h.proc.Receive("game", "A")
		assert.Equal(t, "A", in.Text)
		assert.False(t, in.Filtered)
	})

	modes := []struct {
		mode     string
		text     string
		filtered bool
	}{
		{config.FilterOff, "A B", false},
		{config.FilterLenient, "A hello", true},
		{config.FilterStrict, "A hello", false},
		{config.FilterStrict, "A A", true},
	}
	for _, tt := range modes {
		t.Run(tt.mode+" "+tt.text, func(t *testing.T) {
			h := newHarness(t, tt.mode)
			h.load(t)
			_, err := h.triggers.SetEnabled("A", false)
			require.NoError(t, err)

			in := h.proc.Receive("public", tt.text)
			assert.Equal(t, tt.filtered, in.Filtered)
			if tt.filtered {
				assert.Equal(t, tt.text, in.Text)
			}
		})
	}
}

func TestResizeToggled(t *testing.T) {
	h := newHarness(t, config.FilterOff)
	require.NoError(t, h.proc.ResizeToggled("A", false))
	assert.Equal(t, 1, h.reloads)
}

func TestHandleChange(t *testing.T) {
	h := newHarness(t, config.FilterOff)
	limits := 0
	h.proc.opts.LimitChanged = func() { limits++ }

	var disabled []string
	h.triggers.OnDisabled(func(name string) { disabled = append(disabled, name) })

	// an edit made behind the state store's back
	require.NoError(t, h.kv.Set("glyphs", config.KeyDisabledTriggers, "A,B"))

	require.NoError(t, h.proc.HandleChange(kvstore.Change{Group: "other", Key: config.KeyDisabledTriggers}))
	assert.Empty(t, disabled)

	require.NoError(t, h.proc.HandleChange(kvstore.Change{Group: "glyphs", Key: config.KeyDisabledTriggers}))
	assert.Equal(t, []string{"A", "B"}, disabled)
	assert.False(t, h.triggers.IsEnabled("A"))

	require.NoError(t, h.proc.HandleChange(kvstore.Change{Group: "glyphs", Key: config.KeyMessageLimit}))
	assert.Equal(t, 1, limits)

	require.NoError(t, h.proc.HandleChange(kvstore.Change{Group: "glyphs", Key: "unrelated"}))
}

func TestStateGate(t *testing.T) {
	h := newHarness(t, config.FilterOff)
	gate := StateGate(h.triggers, h.folders)
	a, _ := h.index.ByName("A")
	b, _ := h.index.ByName("B")

	assert.True(t, gate.Enabled(a))
	_, err := h.folders.SetEnabled("twitch", false)
	require.NoError(t, err)
	assert.False(t, gate.Enabled(a))
	assert.True(t, gate.Enabled(b))

	assert.True(t, StateGate(nil, nil).Enabled(a))
}
