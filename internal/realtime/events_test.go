package realtime

import (
	"testing"

	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

func TestDecodeMessageEvent(t *testing.T) {
	frame := []byte(`{
		"event": "new_message",
		"data": {
			"id": "m1",
			"conversationId": "c1",
			"sender": "user",
			"content": "hola",
			"createdAt": "2024-01-01T00:00:00Z",
			"conversation": {"id": "c1", "userId": "u1", "mode": "BOT", "updatedAt": "t0"}
		}
	}`)

	ev, err := decodeFrame(frame)
	if err != nil {
		t.Fatalf("decodeFrame() error: %v", err)
	}
	msgEv, ok := ev.(MessageEvent)
	if !ok {
		t.Fatalf("decoded %T, want MessageEvent", ev)
	}
	if msgEv.Message.ID != "m1" || msgEv.Message.Sender != types.SenderUser {
		t.Errorf("message not decoded: %+v", msgEv.Message)
	}
	if msgEv.Conversation == nil || msgEv.Conversation.ID != "c1" {
		t.Errorf("embedded conversation not decoded: %+v", msgEv.Conversation)
	}
}

func TestDecodeMessageEventWithoutSnapshot(t *testing.T) {
	frame := []byte(`{"event": "new_message", "data": {"id": "m1", "conversationId": "c1", "sender": "agent", "content": "ok", "createdAt": "t1"}}`)

	ev, err := decodeFrame(frame)
	if err != nil {
		t.Fatalf("decodeFrame() error: %v", err)
	}
	msgEv := ev.(MessageEvent)
	if msgEv.Conversation != nil {
		t.Errorf("expected nil conversation snapshot, got %+v", msgEv.Conversation)
	}
}

func TestDecodeMessageEventMissingID(t *testing.T) {
	frame := []byte(`{"event": "new_message", "data": {"content": "hola"}}`)
	if _, err := decodeFrame(frame); err == nil {
		t.Error("message event without id should be rejected")
	}
}

func TestDecodeConversationUpdate(t *testing.T) {
	frame := []byte(`{"event": "conversation_update", "data": {"id": "c1", "userId": "u1", "mode": "HUMAN", "updatedAt": "t1", "unreadCount": 4}}`)

	ev, err := decodeFrame(frame)
	if err != nil {
		t.Fatalf("decodeFrame() error: %v", err)
	}
	convEv, ok := ev.(ConversationEvent)
	if !ok {
		t.Fatalf("decoded %T, want ConversationEvent", ev)
	}
	if convEv.Conversation.Mode != types.ModeHuman {
		t.Errorf("mode = %s, want HUMAN", convEv.Conversation.Mode)
	}
	if convEv.Conversation.UnreadCount == nil || *convEv.Conversation.UnreadCount != 4 {
		t.Error("explicit unreadCount should survive decoding")
	}
}

func TestDecodeConversationUpdateOmittedUnread(t *testing.T) {
	// Absence of unreadCount must decode as nil (unknown), not zero;
	// the store's merge depends on the distinction.
	frame := []byte(`{"event": "conversation_update", "data": {"id": "c1", "userId": "u1", "mode": "BOT", "updatedAt": "t1"}}`)

	ev, err := decodeFrame(frame)
	if err != nil {
		t.Fatalf("decodeFrame() error: %v", err)
	}
	if ev.(ConversationEvent).Conversation.UnreadCount != nil {
		t.Error("omitted unreadCount should decode as nil")
	}
}

func TestDecodeIncomingMessage(t *testing.T) {
	frame := []byte(`{"event": "incoming_message", "data": {"conversation": {"id": "c2", "userId": "u2", "mode": "BOT", "updatedAt": "t0"}}}`)

	ev, err := decodeFrame(frame)
	if err != nil {
		t.Fatalf("decodeFrame() error: %v", err)
	}
	ncEv, ok := ev.(NewConversationEvent)
	if !ok {
		t.Fatalf("decoded %T, want NewConversationEvent", ev)
	}
	if ncEv.Conversation.ID != "c2" {
		t.Errorf("conversation id = %s, want c2", ncEv.Conversation.ID)
	}
}

func TestDecodeIncomingMessageWithoutConversation(t *testing.T) {
	frame := []byte(`{"event": "incoming_message", "data": {}}`)
	if _, err := decodeFrame(frame); err == nil {
		t.Error("incoming_message without conversation should be rejected")
	}
}

func TestDecodeNewOrder(t *testing.T) {
	frame := []byte(`{"event": "new_order", "data": {"id": "o1", "branchId": "b1", "status": "PENDIENTE_DE_PAGO", "total": 42.5, "createdAt": "t0"}}`)

	ev, err := decodeFrame(frame)
	if err != nil {
		t.Fatalf("decodeFrame() error: %v", err)
	}
	orderEv, ok := ev.(OrderEvent)
	if !ok {
		t.Fatalf("decoded %T, want OrderEvent", ev)
	}
	if orderEv.Order.Total != 42.5 {
		t.Errorf("total = %v, want 42.5", orderEv.Order.Total)
	}
}

func TestDecodeConnectedAck(t *testing.T) {
	ev, err := decodeFrame([]byte(`{"event": "connected", "data": {"agentId": "a1"}}`))
	if err != nil {
		t.Fatalf("decodeFrame() error: %v", err)
	}
	if ev.(ConnectedEvent).AgentID != "a1" {
		t.Error("agentId not decoded from connected ack")
	}
}

func TestDecodeUnknownEventSkipped(t *testing.T) {
	ev, err := decodeFrame([]byte(`{"event": "typing", "data": {}}`))
	if err != nil {
		t.Errorf("unknown event should not error, got %v", err)
	}
	if ev != nil {
		t.Errorf("unknown event should decode to nil, got %T", ev)
	}
}

func TestDecodeMalformedFrame(t *testing.T) {
	if _, err := decodeFrame([]byte(`not json`)); err == nil {
		t.Error("malformed frame should error")
	}
}
