package store

import (
	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// Handlers for events coming off the push channel. The channel can race
// with REST reloads and can deliver the same event twice; each handler is
// written so either interleaving converges to the same state.

// HandleMessageEvent applies a pushed message plus the conversation
// snapshot the backend sometimes embeds alongside it. A duplicate message
// id makes the whole event a no-op, including the conversation merge.
func (s *Store) HandleMessageEvent(msg types.Message, conv *types.Conversation) {
	if !s.AppendMessage(msg) {
		return
	}

	s.mu.Lock()
	defer func() {
		s.mu.Unlock()
		s.notify()
	}()

	existing := s.findLocked(msg.ConversationID)

	if conv != nil {
		snapshot := *conv
		snapshot.LastMessage = msg.Content
		snapshot.UpdatedAt = msg.CreatedAt
		if existing == nil {
			// Brand-new thread arriving via its first message: a
			// user-authored one starts with one unread.
			if msg.Sender == types.SenderUser {
				snapshot.SetUnread(1)
			} else {
				snapshot.SetUnread(0)
			}
		} else {
			// Merge preserves the locally tracked count (AppendMessage
			// already bumped it if this message warranted that).
			snapshot.UnreadCount = nil
		}
		s.upsertLocked(snapshot)
		return
	}

	if existing != nil {
		updated := *existing
		updated.LastMessage = msg.Content
		updated.UpdatedAt = msg.CreatedAt
		updated.UnreadCount = nil
		s.upsertLocked(updated)
	}
	// No snapshot and no local conversation: nothing to merge. The next
	// conversation-list reload or conversation event fills the gap.
}

// HandleConversationChanged applies a conversation mutation pushed by the
// backend (mode toggles, agent assignment, tag changes). Unknown ids are
// inserts.
func (s *Store) HandleConversationChanged(conv types.Conversation) {
	s.UpsertConversation(conv)
}

// HandleNewConversation applies the dedicated brand-new-inbound event.
// If the thread is already known (it raced with a message event carrying
// the same conversation) this increments rather than resets the counter.
func (s *Store) HandleNewConversation(conv types.Conversation) {
	s.mu.Lock()
	existing := s.findLocked(conv.ID)
	if existing == nil {
		conv.SetUnread(1)
		s.upsertLocked(conv)
		s.mu.Unlock()
		s.notify()
		return
	}

	conv.SetUnread(existing.Unread() + 1)
	s.upsertLocked(conv)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) findLocked(conversationID string) *types.Conversation {
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			return &s.conversations[i]
		}
	}
	return nil
}
