package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/andresFJ158/frontend-je-bot-crm/internal/realtime"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/store"
	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// Color palette
var (
	primaryColor   = lipgloss.Color("#25D366") // WhatsApp green branding
	secondaryColor = lipgloss.Color("#128C7E") // Teal accent
	agentColor     = lipgloss.Color("#3B82F6") // Blue for agent messages
	userColor      = lipgloss.Color("#F59E0B") // Amber for customer messages
	botColor       = lipgloss.Color("#10B981") // Green for bot messages
	dimColor       = lipgloss.Color("#6B7280") // Gray for help text
	errorColor     = lipgloss.Color("#EF4444") // Red for errors
	warningColor   = lipgloss.Color("#F59E0B") // Amber for warnings
)

// Styles
var (
	// Header bar style
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 1)

	// Message prefixes
	userPrefixStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(userColor)

	botPrefixStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(botColor)

	agentPrefixStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(agentColor)

	messageTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E5E7EB"))

	timestampStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Conversation list
	selectedRowStyle = lipgloss.NewStyle().
				Background(secondaryColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	unreadBadgeStyle = lipgloss.NewStyle().
				Background(errorColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true).
				Padding(0, 1)

	modeTagStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// Pane borders
	listBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimColor)

	listFocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor)

	chatBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimColor)

	inputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(secondaryColor).
				Padding(0, 1)

	// Help bar at bottom
	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	// System message (status changes, info)
	systemStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	// Error message
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	// Toast styles by type
	toastSuccessStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(botColor).
				Foreground(botColor).
				Padding(0, 1)

	toastErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Foreground(errorColor).
			Padding(0, 1)

	toastWarningStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(warningColor).
				Foreground(warningColor).
				Padding(0, 1)

	toastInfoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Foreground(lipgloss.Color("#E5E7EB")).
			Padding(0, 1)

	// Channel state indicators
	connectedStyle = lipgloss.NewStyle().
			Foreground(botColor).
			Bold(true)

	connectingStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	disconnectedStyle = lipgloss.NewStyle().
				Foreground(errorColor)
)

// senderLabel returns the display prefix for a message sender.
func senderLabel(sender types.Sender) string {
	switch sender {
	case types.SenderUser:
		return "Cliente:"
	case types.SenderBot:
		return "Bot:"
	case types.SenderAgent:
		return "Agente:"
	default:
		return string(sender) + ":"
	}
}

// formatMessage formats a chat message with a colored sender prefix.
func formatMessage(msg types.Message) string {
	label := senderLabel(msg.Sender)

	var prefix string
	switch msg.Sender {
	case types.SenderUser:
		prefix = userPrefixStyle.Render(label)
	case types.SenderBot:
		prefix = botPrefixStyle.Render(label)
	default:
		prefix = agentPrefixStyle.Render(label)
	}

	line := prefix + " " + messageTextStyle.Render(msg.Content)
	if ts := formatTimestamp(msg.CreatedAt); ts != "" {
		line += "  " + timestampStyle.Render(ts)
	}
	return line
}

// formatSystemMessage formats a system message
func formatSystemMessage(text string) string {
	return systemStyle.Render("• " + text)
}

// formatError formats an error message
func formatError(text string) string {
	return errorStyle.Render("✗ " + text)
}

// formatToast renders a toast in its type's color.
func formatToast(t store.Toast) string {
	switch t.Type {
	case store.ToastSuccess:
		return toastSuccessStyle.Render("✓ " + t.Message)
	case store.ToastError:
		return toastErrorStyle.Render("✗ " + t.Message)
	case store.ToastWarning:
		return toastWarningStyle.Render("⚠ " + t.Message)
	default:
		return toastInfoStyle.Render("ℹ " + t.Message)
	}
}

// formatChannelState renders the push channel state for the status bar.
func formatChannelState(s realtime.State) string {
	switch s {
	case realtime.Connected:
		return connectedStyle.Render("● conectado")
	case realtime.Connecting:
		return connectingStyle.Render("◌ conectando…")
	default:
		return disconnectedStyle.Render("○ desconectado")
	}
}

// unreadBadge renders an unread counter, or nothing when zero.
func unreadBadge(n int) string {
	if n <= 0 {
		return ""
	}
	if n > 99 {
		return unreadBadgeStyle.Render("99+")
	}
	return unreadBadgeStyle.Render(fmt.Sprintf("%d", n))
}

// conversationTitle picks a display name for a conversation row.
func conversationTitle(conv types.Conversation) string {
	if conv.User != nil && conv.User.Name != "" {
		return conv.User.Name
	}
	if conv.User != nil && conv.User.Phone != "" {
		return conv.User.Phone
	}
	return conv.ID
}

// formatTimestamp renders an ISO timestamp as local HH:MM. Unparseable
// input renders as empty rather than leaking the raw string.
func formatTimestamp(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	return t.Local().Format("15:04")
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
