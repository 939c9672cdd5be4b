// Package tui renders the agent dashboard: conversation list, chat pane,
// toast overlay and a status bar wired to the realtime channel.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andresFJ158/frontend-je-bot-crm/internal/api"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/config"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/metrics"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/notify"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/realtime"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/store"
	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// focusArea says which pane owns the keyboard.
type focusArea int

const (
	focusList focusArea = iota
	focusInput
)

// listPaneWidth is the fixed width of the conversation pane.
const listPaneWidth = 36

// Options carries the wired dependencies for the dashboard.
type Options struct {
	Config   *config.Config
	Store    *store.Store
	Client   *api.Client
	Channel  *realtime.Channel
	Metrics  *metrics.Collector
	Notifier *notify.Notifier
}

// storeChangedMsg is sent when the store signals a mutation.
type storeChangedMsg struct{}

// channelEventMsg wraps one decoded push event.
type channelEventMsg struct {
	event realtime.Event
}

// channelClosedMsg is sent when the push channel shuts down for good.
type channelClosedMsg struct{}

// toastExpiredMsg fires when a toast's display window ends.
type toastExpiredMsg struct {
	id string
}

type conversationsMsg struct {
	conversations []types.Conversation
	err           error
}

type messagesMsg struct {
	conversationID string
	messages       []types.Message
	err            error
}

type sentMsg struct {
	err error
}

type quickRepliesMsg struct {
	replies []types.QuickReply
	err     error
}

type convUpdatedMsg struct {
	conv *types.Conversation
	err  error
}

// Model is the bubbletea model for the dashboard
type Model struct {
	cfg      *config.Config
	store    *store.Store
	client   *api.Client
	channel  *realtime.Channel
	metrics  *metrics.Collector
	notifier *notify.Notifier

	viewport viewport.Model
	textarea textarea.Model
	picker   *QuickReplyPicker

	focus         focusArea
	cursor        int
	width         int
	height        int
	ready         bool
	quitting      bool
	sending       bool
	everConnected bool
	err           error
}

// New creates the dashboard model
func New(opts Options) *Model {
	ta := textarea.New()
	ta.Placeholder = "Escribe un mensaje… (/ para respuestas rápidas)"
	ta.CharLimit = 4096
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true)

	return &Model{
		cfg:      opts.Config,
		store:    opts.Store,
		client:   opts.Client,
		channel:  opts.Channel,
		metrics:  opts.Metrics,
		notifier: opts.Notifier,
		textarea: ta,
		picker:   NewQuickReplyPicker(nil),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.waitForEvent(),
		m.waitForChange(),
		m.loadConversations(),
		m.loadQuickReplies(),
	)
}

// waitForEvent blocks until the push channel yields the next event.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.channel.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return channelEventMsg{event: ev}
	}
}

// waitForChange blocks until the store signals a mutation. Covers
// writers outside this model, like the background poller.
func (m Model) waitForChange() tea.Cmd {
	ch := m.store.Changes()
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

func (m Model) loadConversations() tea.Cmd {
	return func() tea.Msg {
		conversations, err := m.client.Conversations()
		return conversationsMsg{conversations: conversations, err: err}
	}
}

func (m Model) loadMessages(conversationID string) tea.Cmd {
	return func() tea.Msg {
		messages, err := m.client.ConversationMessages(conversationID)
		return messagesMsg{conversationID: conversationID, messages: messages, err: err}
	}
}

func (m Model) loadQuickReplies() tea.Cmd {
	return func() tea.Msg {
		replies, err := m.client.QuickReplies("")
		return quickRepliesMsg{replies: replies, err: err}
	}
}

func (m Model) sendMessage(conversationID, content string) tea.Cmd {
	return func() tea.Msg {
		return sentMsg{err: m.client.SendMessage(conversationID, content)}
	}
}

func (m Model) toastDuration() time.Duration {
	if m.cfg != nil && m.cfg.Toast.DurationMs > 0 {
		return time.Duration(m.cfg.Toast.DurationMs) * time.Millisecond
	}
	return store.DefaultToastDuration
}

// pushToast enqueues a toast and schedules its expiry.
func (m Model) pushToast(message string, typ store.ToastType) tea.Cmd {
	d := m.toastDuration()
	id := m.store.EnqueueToast(message, typ, d)
	m.metrics.IncrementToasts()
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		model, cmd, handled := m.handleKey(msg)
		if handled {
			return model, cmd
		}
		m = model

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 1
		inputHeight := 5
		statusHeight := 1
		chatHeight := m.height - headerHeight - inputHeight - statusHeight - 2
		if chatHeight < 3 {
			chatHeight = 3
		}

		chatWidth := m.width - listPaneWidth - 4
		if chatWidth < 20 {
			chatWidth = 20
		}

		if !m.ready {
			m.viewport = viewport.New(chatWidth, chatHeight)
			m.viewport.SetContent(m.renderMessages())
			m.ready = true
		} else {
			m.viewport.Width = chatWidth
			m.viewport.Height = chatHeight
		}

		m.textarea.SetWidth(m.width - 4)
		return m, nil

	case storeChangedMsg:
		m.clampCursor()
		m.refreshViewport()
		return m, m.waitForChange()

	case channelEventMsg:
		cmds = append(cmds, m.waitForEvent())
		cmds = append(cmds, m.handleEvent(msg.event)...)
		m.clampCursor()
		m.refreshViewport()
		return m, tea.Batch(cmds...)

	case channelClosedMsg:
		return m, nil

	case toastExpiredMsg:
		m.store.DismissToast(msg.id)
		return m, nil

	case conversationsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, m.pushToast("No se pudo cargar conversaciones: "+msg.err.Error(), store.ToastError)
		}
		m.err = nil
		m.store.LoadConversations(msg.conversations)
		m.clampCursor()
		return m, nil

	case messagesMsg:
		if msg.err != nil {
			return m, m.pushToast("No se pudo cargar mensajes: "+msg.err.Error(), store.ToastError)
		}
		sel := m.store.Selected()
		if sel != nil && sel.ID == msg.conversationID {
			m.store.LoadMessages(msg.messages)
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		return m, nil

	case sentMsg:
		m.sending = false
		if msg.err != nil {
			return m, m.pushToast("No se pudo enviar: "+msg.err.Error(), store.ToastError)
		}
		m.metrics.IncrementMessagesSent()
		return m, nil

	case quickRepliesMsg:
		if msg.err == nil {
			m.picker.SetReplies(msg.replies)
		}
		return m, nil

	case convUpdatedMsg:
		if msg.err != nil {
			return m, m.pushToast("Operación falló: "+msg.err.Error(), store.ToastError)
		}
		if msg.conv != nil {
			m.store.UpsertConversation(*msg.conv)
		}
		return m, nil
	}

	if m.focus == focusInput {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.picker.Update(m.textarea.Value())
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey routes a key press. handled=false means the key should fall
// through to the textarea/viewport.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit, true

	case tea.KeyTab:
		if m.focus == focusInput && m.picker.IsActive() {
			m.textarea.SetValue(m.picker.Selected())
			m.textarea.CursorEnd()
			m.picker.Reset()
			return m, nil, true
		}
		if m.focus == focusList {
			m.focus = focusInput
			m.textarea.Focus()
		} else {
			m.focus = focusList
			m.textarea.Blur()
		}
		return m, nil, true

	case tea.KeyCtrlR:
		return m, m.loadConversations(), true

	case tea.KeyCtrlB:
		return m, m.toggleMode(), true

	case tea.KeyCtrlA:
		return m, m.assignToSelf(), true

	case tea.KeyEsc:
		if m.picker.IsActive() {
			m.picker.Reset()
			return m, nil, true
		}

	case tea.KeyUp:
		if m.focus == focusInput && m.picker.IsActive() {
			m.picker.Prev()
			return m, nil, true
		}
		if m.focus == focusList {
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil, true
		}

	case tea.KeyDown:
		if m.focus == focusInput && m.picker.IsActive() {
			m.picker.Next()
			return m, nil, true
		}
		if m.focus == focusList {
			if m.cursor < len(m.store.Conversations())-1 {
				m.cursor++
			}
			return m, nil, true
		}

	case tea.KeyEnter:
		if m.focus == focusList {
			return m.selectAtCursor()
		}

		if m.picker.IsActive() {
			m.textarea.SetValue(m.picker.Selected())
			m.textarea.CursorEnd()
			m.picker.Reset()
			return m, nil, true
		}

		if msg.Alt {
			break
		}

		if !m.sending {
			text := strings.TrimSpace(m.textarea.Value())
			sel := m.store.Selected()
			if text != "" && sel != nil {
				m.textarea.Reset()
				m.picker.Reset()
				m.sending = true
				return m, m.sendMessage(sel.ID, text), true
			}
		}
		return m, nil, true
	}

	return m, nil, false
}

// selectAtCursor makes the conversation under the cursor active.
func (m Model) selectAtCursor() (Model, tea.Cmd, bool) {
	conversations := m.store.Conversations()
	if m.cursor < 0 || m.cursor >= len(conversations) {
		return m, nil, true
	}

	conv := conversations[m.cursor]
	m.store.SelectConversation(&conv)
	m.focus = focusInput
	m.textarea.Focus()
	m.refreshViewport()
	return m, m.loadMessages(conv.ID), true
}

// handleEvent reconciles one push event into the store.
func (m *Model) handleEvent(ev realtime.Event) []tea.Cmd {
	var cmds []tea.Cmd

	switch ev := ev.(type) {
	case realtime.StateEvent:
		if ev.State == realtime.Connected {
			if m.everConnected {
				m.metrics.IncrementReconnects()
			}
			m.everConnected = true
			// Resync whatever was missed while disconnected
			cmds = append(cmds, m.loadConversations())
		}

	case realtime.ConnectedEvent:
		m.metrics.IncrementEvent("connected")

	case realtime.MessageEvent:
		m.metrics.IncrementEvent("new_message")
		m.store.HandleMessageEvent(ev.Message, ev.Conversation)
		if ev.Message.Sender == types.SenderUser && m.notifier != nil {
			m.notifier.Ring()
		}
		m.viewport.GotoBottom()

	case realtime.ConversationEvent:
		m.metrics.IncrementEvent("conversation_update")
		m.store.HandleConversationChanged(ev.Conversation)

	case realtime.NewConversationEvent:
		m.metrics.IncrementEvent("incoming_message")
		m.store.HandleNewConversation(ev.Conversation)
		cmds = append(cmds, m.pushToast("Nueva conversación de "+conversationTitle(ev.Conversation), store.ToastInfo))

	case realtime.OrderEvent:
		m.metrics.IncrementEvent("new_order")
		text := fmt.Sprintf("Nuevo pedido %s (Bs. %.2f)", ev.Order.ID, ev.Order.Total)
		cmds = append(cmds, m.pushToast(text, store.ToastSuccess))
		if m.notifier != nil {
			go m.notifier.Send("Nuevo pedido", text)
		}
	}

	return cmds
}

// toggleMode flips the selected conversation between bot and human.
func (m Model) toggleMode() tea.Cmd {
	sel := m.store.Selected()
	if sel == nil {
		return nil
	}

	next := types.ModeHuman
	if sel.Mode == types.ModeHuman {
		next = types.ModeBot
	}
	id := sel.ID

	return func() tea.Msg {
		conv, err := m.client.SetConversationMode(id, next)
		return convUpdatedMsg{conv: conv, err: err}
	}
}

// assignToSelf assigns the selected conversation to the logged-in agent.
func (m Model) assignToSelf() tea.Cmd {
	sel := m.store.Selected()
	session := m.store.Session()
	if sel == nil || !session.Valid() {
		return nil
	}
	id := sel.ID
	agentID := session.Agent.ID

	return func() tea.Msg {
		conv, err := m.client.AssignConversation(id, agentID)
		return convUpdatedMsg{conv: conv, err: err}
	}
}

// clampCursor keeps the list cursor inside the current list.
func (m *Model) clampCursor() {
	n := len(m.store.Conversations())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refreshViewport() {
	if m.ready {
		m.viewport.SetContent(m.renderMessages())
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return "Hasta pronto 👋\n"
	}

	if !m.ready {
		return "Cargando…"
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	for _, t := range m.store.Toasts() {
		b.WriteString(formatToast(t))
		b.WriteString("\n")
	}

	listStyle := listBorderStyle
	if m.focus == focusList {
		listStyle = listFocusedBorderStyle
	}
	list := listStyle.Width(listPaneWidth).Height(m.viewport.Height).Render(m.renderConversationList())
	chat := chatBorderStyle.Width(m.viewport.Width).Render(m.viewport.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, chat))
	b.WriteString("\n")

	if m.picker.IsActive() {
		b.WriteString(m.picker.View(m.width - 4))
		b.WriteString("\n")
	}

	b.WriteString(inputBorderStyle.Width(m.width - 2).Render(m.textarea.View()))
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(formatError(m.err.Error()))
	}

	return b.String()
}

// renderHeader renders the brand bar with agent name and unread total.
func (m Model) renderHeader() string {
	session := m.store.Session()
	agentName := "sin sesión"
	if session.Valid() {
		agentName = session.Agent.Name
	}

	left := headerStyle.Render("💬 JE Bot CRM")
	mid := " " + agentName
	right := formatChannelState(m.channel.State())
	if total := m.store.TotalUnread(); total > 0 {
		right += "  " + unreadBadge(total)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return left + mid + strings.Repeat(" ", gap) + right
}

// renderConversationList renders the left pane.
func (m Model) renderConversationList() string {
	conversations := m.store.Conversations()
	if len(conversations) == 0 {
		return systemStyle.Render("Sin conversaciones")
	}

	selected := m.store.Selected()
	var lines []string
	for i, conv := range conversations {
		title := truncate(conversationTitle(conv), 20)
		row := title

		if badge := unreadBadge(conv.Unread()); badge != "" {
			row += " " + badge
		}
		if conv.Mode == types.ModeBot {
			row += " " + modeTagStyle.Render("[bot]")
		}
		if selected != nil && selected.ID == conv.ID {
			row = "▶ " + row
		} else {
			row = "  " + row
		}

		if i == m.cursor && m.focus == focusList {
			row = selectedRowStyle.Render(row)
		}
		lines = append(lines, row)

		if conv.LastMessage != "" {
			lines = append(lines, "    "+timestampStyle.Render(truncate(conv.LastMessage, listPaneWidth-6)))
		}
	}

	return strings.Join(lines, "\n")
}

// renderMessages renders the chat pane content.
func (m Model) renderMessages() string {
	sel := m.store.Selected()
	if sel == nil {
		return systemStyle.Render("Selecciona una conversación para ver los mensajes.\n\nTab cambia de panel, ↑/↓ navega, Enter abre.")
	}

	// The store collects pushes for every conversation; the pane only
	// shows the open one.
	var lines []string
	for _, msg := range m.store.Messages() {
		if msg.ConversationID != sel.ID {
			continue
		}
		wrapped := wrapText(formatMessage(msg), m.viewport.Width-4)
		lines = append(lines, wrapped)
		lines = append(lines, "")
	}

	if len(lines) == 0 {
		return systemStyle.Render("Sin mensajes todavía.")
	}

	return strings.Join(lines, "\n")
}

// renderStatusBar renders keybindings and counters.
func (m Model) renderStatusBar() string {
	help := "Tab panel • Enter enviar • Ctrl+B bot/humano • Ctrl+A asignarme • Ctrl+R recargar • Ctrl+C salir"
	stats := m.metrics.Summary()

	gap := m.width - lipgloss.Width(help) - lipgloss.Width(stats) - 2
	if gap < 1 {
		return helpStyle.Render(help)
	}
	return helpStyle.Render(help) + strings.Repeat(" ", gap) + timestampStyle.Render(stats)
}

// wrapText wraps text to fit within the given width
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 80
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if lipgloss.Width(currentLine+" "+word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
	}

	return result.String()
}

// Run starts the dashboard
func Run(opts Options) error {
	model := New(opts)

	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
