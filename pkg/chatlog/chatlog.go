package chatlog

import (
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/processor"
	"github.com/google/uuid"
)

// Message categories
const (
	CategoryPublic    = "public"
	CategoryPrivate   = "private"
	CategoryClan      = "clan"
	CategoryFriends   = "friends"
	CategoryBroadcast = "broadcast"
	CategoryGame      = "game"
)

// DefaultLimit is used when a non-positive limit is requested
const DefaultLimit = 200

// Message is one buffered chat line
type Message struct {
	id       uuid.UUID
	category string
	sender   string
	received time.Time

	mu      sync.RWMutex
	text    string
	evicted bool
}

// ID returns the message identity
func (m *Message) ID() string { return m.id.String() }

// Category returns the message category
func (m *Message) Category() string { return m.category }

// Sender returns who sent the message
func (m *Message) Sender() string { return m.sender }

// Received returns when the message was added
func (m *Message) Received() time.Time { return m.received }

// Text returns the current text
func (m *Message) Text() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.text
}

// SetText replaces the text. A message that fell off the log can no
// longer be updated.
func (m *Message) SetText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.evicted {
		return errors.Newf(errors.ErrMessageUpdate, "message %s is no longer buffered", m.id).
			WithDetail("id", m.id.String())
	}
	m.text = text
	return nil
}

func (m *Message) evict() {
	m.mu.Lock()
	m.evicted = true
	m.mu.Unlock()
}

// Log is the bounded buffer
type Log struct {
	mu        sync.RWMutex
	messages  []*Message
	limit     int
	eligible  map[string]bool
	listeners []func()
}

// New creates a log holding at most limit messages. Only messages in the
// eligible categories are offered for rewriting.
func New(limit int, eligible []string) *Log {
	l := &Log{eligible: make(map[string]bool, len(eligible))}
	for _, c := range eligible {
		l.eligible[strings.ToLower(strings.TrimSpace(c))] = true
	}
	l.limit = normalize(limit)
	return l
}

// Add appends a message and evicts the oldest past the limit
func (l *Log) Add(category, sender, text string) *Message {
	m := &Message{
		id:       uuid.New(),
		category: strings.ToLower(category),
		sender:   sender,
		received: time.Now(),
		text:     text,
	}

	l.mu.Lock()
	l.messages = append(l.messages, m)
	l.prune()
	l.mu.Unlock()
	return m
}

// Messages returns the buffered messages, oldest first
func (l *Log) Messages() []processor.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]processor.Message, len(l.messages))
	for i, m := range l.messages {
		out[i] = m
	}
	return out
}

// Get finds a buffered message by id
func (l *Log) Get(id string) (*Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, m := range l.messages {
		if m.ID() == id {
			return m, true
		}
	}
	return nil, false
}

// Eligible reports whether category may be rewritten
func (l *Log) Eligible(category string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.eligible[strings.ToLower(category)]
}

// OnRefresh registers fn to run on every Refresh
func (l *Log) OnRefresh(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Refresh notifies refresh listeners
func (l *Log) Refresh() {
	l.mu.RLock()
	listeners := append([]func(){}, l.listeners...)
	l.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// SetLimit changes the limit, evicting the oldest messages if needed
func (l *Log) SetLimit(limit int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = normalize(limit)
	l.prune()
}

// Limit returns the current limit
func (l *Log) Limit() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.limit
}

// Len returns the number of buffered messages
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// prune must be called with mu held
func (l *Log) prune() {
	if len(l.messages) <= l.limit {
		return
	}
	drop := len(l.messages) - l.limit
	for _, m := range l.messages[:drop] {
		m.evict()
	}
	l.messages = append([]*Message(nil), l.messages[drop:]...)
}

func normalize(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
