// Package store is the in-memory source of truth for the operator console:
// the authenticated session, the conversation list, the open conversation's
// messages, and the toast queue. Events reach it from two independent
// sources (REST responses and realtime pushes) in no guaranteed order, so
// every mutation is an idempotent merge keyed by entity id.
package store

import (
	"sync"

	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// Session is the authenticated agent identity plus bearer token. Token is
// non-empty exactly when Agent is non-nil.
type Session struct {
	Token string
	Agent *types.Agent
}

// Valid reports whether a session is present.
func (s Session) Valid() bool {
	return s.Token != "" && s.Agent != nil
}

// SessionSaver mirrors the session into durable storage so a restart can
// reestablish it without re-authenticating. A nil saver is valid.
type SessionSaver interface {
	SaveSession(token string, agent *types.Agent) error
	ClearSession() error
}

// Store holds all client-side state behind one mutex. The realtime read
// loop and the UI loop run on separate goroutines; each operation is
// atomic with respect to both.
type Store struct {
	mu sync.RWMutex

	session       Session
	conversations []types.Conversation
	selected      *types.Conversation
	messages      []types.Message
	messageIDs    map[string]struct{}
	toasts        []Toast

	saver   SessionSaver
	changed chan struct{}
}

// New creates an empty store. saver may be nil.
func New(saver SessionSaver) *Store {
	return &Store{
		messageIDs: make(map[string]struct{}),
		saver:      saver,
		changed:    make(chan struct{}, 1),
	}
}

// Changes returns a coalescing signal channel: at least one receive is
// pending after any mutation. Consumers re-read the state they render.
func (s *Store) Changes() <-chan struct{} {
	return s.changed
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// SetSession installs the session atomically and mirrors it durably.
// An empty token or nil agent clears instead; the two fields never
// diverge.
func (s *Store) SetSession(token string, agent *types.Agent) {
	if token == "" || agent == nil {
		s.ClearSession()
		return
	}

	s.mu.Lock()
	s.session = Session{Token: token, Agent: agent}
	s.mu.Unlock()

	if s.saver != nil {
		s.saver.SaveSession(token, agent)
	}
	s.notify()
}

// ClearSession drops the in-memory and durable session. Callers react to
// the cleared session (closing the channel, returning to login); the
// store does not navigate.
func (s *Store) ClearSession() {
	s.mu.Lock()
	s.session = Session{}
	s.mu.Unlock()

	if s.saver != nil {
		s.saver.ClearSession()
	}
	s.notify()
}

// Session returns the current session.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// LoadConversations replaces the whole collection. This is the only full
// replacement; everything else merges. Entries without an unread count
// get an explicit zero so later merges have a value to preserve.
func (s *Store) LoadConversations(list []types.Conversation) {
	s.mu.Lock()
	s.conversations = make([]types.Conversation, len(list))
	for i, c := range list {
		if c.UnreadCount == nil {
			c.SetUnread(0)
		}
		s.conversations[i] = c
	}
	s.mu.Unlock()
	s.notify()
}

// UpsertConversation merges an incoming conversation over the local copy
// with the same id, or inserts it at the head of the list. The unread
// count is client-derived: an incoming object that omits it must not
// clobber the locally tracked value.
func (s *Store) UpsertConversation(conv types.Conversation) {
	s.mu.Lock()
	s.upsertLocked(conv)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) upsertLocked(conv types.Conversation) {
	for i := range s.conversations {
		if s.conversations[i].ID != conv.ID {
			continue
		}
		if conv.UnreadCount == nil {
			conv.UnreadCount = s.conversations[i].UnreadCount
			if conv.UnreadCount == nil {
				conv.SetUnread(0)
			}
		}
		s.conversations[i] = conv
		s.syncSelectedLocked(conv)
		return
	}

	if conv.UnreadCount == nil {
		conv.SetUnread(0)
	}
	s.conversations = append([]types.Conversation{conv}, s.conversations...)
	s.syncSelectedLocked(conv)
}

// syncSelectedLocked keeps the open conversation identical to its list
// entry, so an update for the selected thread reaches the visible copy.
func (s *Store) syncSelectedLocked(conv types.Conversation) {
	if s.selected != nil && s.selected.ID == conv.ID {
		c := conv
		s.selected = &c
	}
}

// SelectConversation opens a conversation (resetting its unread count) or
// closes the chat view when conv is nil, which also clears the message
// list.
func (s *Store) SelectConversation(conv *types.Conversation) {
	s.mu.Lock()
	if conv == nil {
		s.selected = nil
		s.messages = nil
		s.messageIDs = make(map[string]struct{})
		s.mu.Unlock()
		s.notify()
		return
	}

	c := *conv
	c.SetUnread(0)
	s.selected = &c
	s.resetUnreadLocked(c.ID)
	s.mu.Unlock()
	s.notify()
}

// Selected returns a copy of the open conversation, or nil.
func (s *Store) Selected() *types.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	c := *s.selected
	return &c
}

// Conversations returns a copy of the conversation list.
func (s *Store) Conversations() []types.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// LoadMessages replaces the active message list (the REST load for a
// freshly opened conversation).
func (s *Store) LoadMessages(list []types.Message) {
	s.mu.Lock()
	s.messages = make([]types.Message, len(list))
	s.messageIDs = make(map[string]struct{}, len(list))
	for i, m := range list {
		s.messages[i] = m
		s.messageIDs[m.ID] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// AppendMessage adds one message unless its id is already present.
// Duplicate pushes are no-ops, which is what makes at-least-once delivery
// from the channel safe. A user-authored message for a conversation other
// than the open one bumps that conversation's unread count.
// Reports whether the message was new.
func (s *Store) AppendMessage(msg types.Message) bool {
	s.mu.Lock()
	if _, dup := s.messageIDs[msg.ID]; dup {
		s.mu.Unlock()
		return false
	}

	s.messages = append(s.messages, msg)
	s.messageIDs[msg.ID] = struct{}{}

	if msg.Sender == types.SenderUser && (s.selected == nil || s.selected.ID != msg.ConversationID) {
		s.incrementUnreadLocked(msg.ConversationID)
	}
	s.mu.Unlock()
	s.notify()
	return true
}

// Messages returns a copy of the active message list.
func (s *Store) Messages() []types.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// IncrementUnread bumps a conversation's unread counter by one. Unknown
// ids are ignored.
func (s *Store) IncrementUnread(conversationID string) {
	s.mu.Lock()
	s.incrementUnreadLocked(conversationID)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) incrementUnreadLocked(conversationID string) {
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			s.conversations[i].SetUnread(s.conversations[i].Unread() + 1)
			return
		}
	}
}

// ResetUnread zeroes a conversation's unread counter.
func (s *Store) ResetUnread(conversationID string) {
	s.mu.Lock()
	s.resetUnreadLocked(conversationID)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) resetUnreadLocked(conversationID string) {
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			s.conversations[i].SetUnread(0)
			return
		}
	}
}

// TotalUnread sums unread counters across all conversations.
func (s *Store) TotalUnread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for i := range s.conversations {
		total += s.conversations[i].Unread()
	}
	return total
}
