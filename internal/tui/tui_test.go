package tui

import (
	"strings"
	"testing"

	"github.com/andresFJ158/frontend-je-bot-crm/internal/realtime"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/store"
	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// TestFormatMessage tests message formatting for each sender
func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name       string
		msg        types.Message
		wantPrefix string
	}{
		{
			name: "customer message",
			msg: types.Message{
				Sender:  types.SenderUser,
				Content: "hola, quiero hacer un pedido",
			},
			wantPrefix: "Cliente:",
		},
		{
			name: "bot message",
			msg: types.Message{
				Sender:  types.SenderBot,
				Content: "¡Bienvenido! ¿En qué puedo ayudarte?",
			},
			wantPrefix: "Bot:",
		},
		{
			name: "agent message",
			msg: types.Message{
				Sender:  types.SenderAgent,
				Content: "Tu pedido está en camino",
			},
			wantPrefix: "Agente:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatMessage(tt.msg)
			if !strings.Contains(result, tt.wantPrefix) {
				t.Errorf("expected message to contain %q, got: %s", tt.wantPrefix, result)
			}
			if !strings.Contains(result, tt.msg.Content) {
				t.Errorf("expected message to contain text %q, got: %s", tt.msg.Content, result)
			}
		})
	}
}

// TestUnreadBadge tests the unread counter rendering
func TestUnreadBadge(t *testing.T) {
	if unreadBadge(0) != "" {
		t.Error("zero unread should render nothing")
	}
	if unreadBadge(-1) != "" {
		t.Error("negative unread should render nothing")
	}
	if !strings.Contains(unreadBadge(5), "5") {
		t.Error("badge should contain the count")
	}
	if !strings.Contains(unreadBadge(150), "99+") {
		t.Error("badge should cap at 99+")
	}
}

// TestConversationTitle tests display name fallbacks
func TestConversationTitle(t *testing.T) {
	tests := []struct {
		name string
		conv types.Conversation
		want string
	}{
		{
			name: "contact name",
			conv: types.Conversation{ID: "c1", User: &types.ContactRef{Name: "María", Phone: "59170000001"}},
			want: "María",
		},
		{
			name: "falls back to phone",
			conv: types.Conversation{ID: "c1", User: &types.ContactRef{Phone: "59170000001"}},
			want: "59170000001",
		},
		{
			name: "falls back to id",
			conv: types.Conversation{ID: "c1"},
			want: "c1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conversationTitle(tt.conv); got != tt.want {
				t.Errorf("conversationTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFormatChannelState tests status bar state labels
func TestFormatChannelState(t *testing.T) {
	tests := []struct {
		state realtime.State
		want  string
	}{
		{realtime.Connected, "conectado"},
		{realtime.Connecting, "conectando"},
		{realtime.Disconnected, "desconectado"},
	}

	for _, tt := range tests {
		got := formatChannelState(tt.state)
		if !strings.Contains(got, tt.want) {
			t.Errorf("formatChannelState(%v) = %q, should contain %q", tt.state, got, tt.want)
		}
	}
}

// TestFormatToast tests toast rendering per type
func TestFormatToast(t *testing.T) {
	tests := []struct {
		typ    store.ToastType
		marker string
	}{
		{store.ToastSuccess, "✓"},
		{store.ToastError, "✗"},
		{store.ToastWarning, "⚠"},
		{store.ToastInfo, "ℹ"},
	}

	for _, tt := range tests {
		toast := store.Toast{Message: "mensaje", Type: tt.typ}
		got := formatToast(toast)
		if !strings.Contains(got, tt.marker) {
			t.Errorf("formatToast(%s) = %q, should contain %q", tt.typ, got, tt.marker)
		}
		if !strings.Contains(got, "mensaje") {
			t.Errorf("formatToast(%s) should contain the message", tt.typ)
		}
	}
}

// TestTruncate tests string truncation
func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hola", 10, "hola"},
		{"hola mundo cruel", 10, "hola mund…"},
		{"ñandú emplumado", 6, "ñandú…"},
		{"abc", 0, ""},
		{"abc", 1, "…"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

// TestQuickReplyPicker tests the "/" popup over canned replies
func TestQuickReplyPicker(t *testing.T) {
	replies := []types.QuickReply{
		{Title: "saludo", Message: "¡Hola! Gracias por escribirnos."},
		{Title: "horario", Message: "Atendemos de 9:00 a 21:00."},
		{Title: "hornos", Message: "Los hornos están fuera de servicio."},
	}
	p := NewQuickReplyPicker(replies)

	// Inactive until input starts with "/"
	p.Update("hola")
	if p.IsActive() {
		t.Error("picker should not activate on plain text")
	}

	// Bare "/" shows everything
	p.Update("/")
	if !p.IsActive() {
		t.Fatal("picker should activate on /")
	}
	if len(p.suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %d", len(p.suggestions))
	}

	// Prefix filters by title
	p.Update("/hor")
	if len(p.suggestions) != 2 {
		t.Errorf("expected 2 suggestions for /hor, got %d", len(p.suggestions))
	}

	// Selection returns the message body, not the title
	if p.Selected() != "Atendemos de 9:00 a 21:00." {
		t.Errorf("unexpected selection: %q", p.Selected())
	}

	p.Next()
	if p.Selected() != "Los hornos están fuera de servicio." {
		t.Errorf("Next should advance selection, got %q", p.Selected())
	}

	p.Next()
	if p.Selected() != "Atendemos de 9:00 a 21:00." {
		t.Errorf("Next should wrap around, got %q", p.Selected())
	}

	p.Prev()
	if p.Selected() != "Los hornos están fuera de servicio." {
		t.Errorf("Prev should go back, got %q", p.Selected())
	}

	// A space deactivates the popup
	p.Update("/horario extra")
	if p.IsActive() {
		t.Error("picker should deactivate once input has a space")
	}

	p.Reset()
	if p.IsActive() {
		t.Error("Reset should deactivate the picker")
	}
}

// TestQuickReplyPickerSetReplies tests live reloads while the popup is open
func TestQuickReplyPickerSetReplies(t *testing.T) {
	p := NewQuickReplyPicker(nil)

	p.Update("/")
	if p.IsActive() {
		t.Error("picker with no replies should not be active")
	}

	p.SetReplies([]types.QuickReply{{Title: "saludo", Message: "¡Hola!"}})
	p.Update("/")
	if !p.IsActive() {
		t.Error("picker should activate after replies are loaded")
	}
}

// TestRenderMessagesFiltersBySelectedConversation tests that pushes for
// other threads never render inside the open chat pane
func TestRenderMessagesFiltersBySelectedConversation(t *testing.T) {
	st := store.New(nil)
	st.LoadConversations([]types.Conversation{
		{ID: "cA", UserID: "u1"},
		{ID: "cB", UserID: "u2"},
	})

	convA := types.Conversation{ID: "cA", UserID: "u1"}
	st.SelectConversation(&convA)
	st.LoadMessages([]types.Message{
		{ID: "m1", ConversationID: "cA", Sender: types.SenderUser, Content: "hola desde A"},
	})

	// A push for the other conversation lands in the store (it has to,
	// for the unread bookkeeping) but must stay out of A's pane
	st.HandleMessageEvent(types.Message{
		ID: "m2", ConversationID: "cB", Sender: types.SenderUser, Content: "mensaje de B",
	}, nil)

	m := New(Options{Store: st})
	out := m.renderMessages()

	if !strings.Contains(out, "hola desde A") {
		t.Errorf("expected A's message in the pane, got: %s", out)
	}
	if strings.Contains(out, "mensaje de B") {
		t.Errorf("B's message must not render in A's pane, got: %s", out)
	}
}

// TestRenderMessagesEmptyWhenOnlyOtherThreads tests the placeholder when
// every stored message belongs to another conversation
func TestRenderMessagesEmptyWhenOnlyOtherThreads(t *testing.T) {
	st := store.New(nil)
	st.LoadConversations([]types.Conversation{{ID: "cA"}, {ID: "cB"}})

	convA := types.Conversation{ID: "cA"}
	st.SelectConversation(&convA)
	st.HandleMessageEvent(types.Message{
		ID: "m9", ConversationID: "cB", Sender: types.SenderUser, Content: "otro hilo",
	}, nil)

	m := New(Options{Store: st})
	out := m.renderMessages()

	if strings.Contains(out, "otro hilo") {
		t.Errorf("other thread's message leaked into the pane: %s", out)
	}
	if !strings.Contains(out, "Sin mensajes") {
		t.Errorf("expected the empty placeholder, got: %s", out)
	}
}

// TestWrapText tests text wrapping functionality
func TestWrapText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		width  int
		expect int // expected minimum number of lines
	}{
		{
			name:   "short text no wrap",
			text:   "hola",
			width:  80,
			expect: 1,
		},
		{
			name:   "long text wraps",
			text:   "esta es una línea muy larga que debería cortarse en algún punto porque excede el ancho",
			width:  20,
			expect: 4,
		},
		{
			name:   "already has newlines",
			text:   "línea1\nlínea2",
			width:  80,
			expect: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := wrapText(tt.text, tt.width)
			lines := strings.Split(result, "\n")
			if tt.expect > 1 && len(lines) < 2 {
				t.Errorf("wrapText(%q, %d) should produce multiple lines, got %d lines", tt.text, tt.width, len(lines))
			}
		})
	}
}
