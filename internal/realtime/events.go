package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// Wire event names emitted by the backend.
const (
	wireConnected          = "connected"
	wireNewMessage         = "new_message"
	wireConversationUpdate = "conversation_update"
	wireIncomingMessage    = "incoming_message"
	wireNewOrder           = "new_order"
)

// envelope is the frame format on the push channel.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Event is one decoded push from the backend, or a transport state change.
// The duck-typed wire payloads are normalized into these variants at the
// channel boundary; nothing downstream touches raw JSON.
type Event interface {
	isEvent()
}

// StateEvent reports a transport state transition.
type StateEvent struct {
	State State
}

// ConnectedEvent is the server's post-handshake acknowledgement.
type ConnectedEvent struct {
	AgentID string
}

// MessageEvent carries a pushed message, optionally with an embedded
// conversation snapshot.
type MessageEvent struct {
	Message      types.Message
	Conversation *types.Conversation
}

// ConversationEvent carries a mutated conversation object.
type ConversationEvent struct {
	Conversation types.Conversation
}

// NewConversationEvent announces a brand-new inbound conversation.
type NewConversationEvent struct {
	Conversation types.Conversation
}

// OrderEvent announces a created or updated order. The store does not
// merge these; consumers surface a notification.
type OrderEvent struct {
	Order types.Order
}

func (StateEvent) isEvent()           {}
func (ConnectedEvent) isEvent()       {}
func (MessageEvent) isEvent()         {}
func (ConversationEvent) isEvent()    {}
func (NewConversationEvent) isEvent() {}
func (OrderEvent) isEvent()           {}

// decodeFrame turns one wire frame into an Event. Unknown event names
// return (nil, nil): the frame is skipped, never fatal. Missing payload
// fields default; a dropped realtime event is worse than a partial one,
// so decoding is deliberately lenient about everything except the entity
// id it needs to merge by.
func decodeFrame(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Event {
	case wireConnected:
		var payload struct {
			AgentID string `json:"agentId"`
		}
		json.Unmarshal(env.Data, &payload)
		return ConnectedEvent{AgentID: payload.AgentID}, nil

	case wireNewMessage:
		// The message fields sit at the top level of data, with the
		// optional conversation snapshot nested beside them.
		var payload struct {
			types.Message
			Conversation *types.Conversation `json:"conversation"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		if payload.Message.ID == "" {
			return nil, fmt.Errorf("%s event without message id", env.Event)
		}
		return MessageEvent{Message: payload.Message, Conversation: payload.Conversation}, nil

	case wireConversationUpdate:
		var conv types.Conversation
		if err := json.Unmarshal(env.Data, &conv); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		if conv.ID == "" {
			return nil, fmt.Errorf("%s event without conversation id", env.Event)
		}
		return ConversationEvent{Conversation: conv}, nil

	case wireIncomingMessage:
		var payload struct {
			Conversation *types.Conversation `json:"conversation"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		if payload.Conversation == nil || payload.Conversation.ID == "" {
			return nil, fmt.Errorf("%s event without conversation", env.Event)
		}
		return NewConversationEvent{Conversation: *payload.Conversation}, nil

	case wireNewOrder:
		var order types.Order
		if err := json.Unmarshal(env.Data, &order); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return OrderEvent{Order: order}, nil
	}

	return nil, nil
}
