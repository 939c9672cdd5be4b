package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// QuickReplyPicker manages the quick-reply popup shown while the input
// starts with "/". Selecting an entry replaces the input with the canned
// message body.
type QuickReplyPicker struct {
	replies     []types.QuickReply
	active      bool
	suggestions []types.QuickReply
	selected    int
	prefix      string
}

// NewQuickReplyPicker creates a picker over the given canned replies.
func NewQuickReplyPicker(replies []types.QuickReply) *QuickReplyPicker {
	return &QuickReplyPicker{replies: replies}
}

// SetReplies replaces the available replies (after a backend reload).
func (p *QuickReplyPicker) SetReplies(replies []types.QuickReply) {
	p.replies = replies
	if p.active {
		p.suggestions = p.filter(p.prefix)
		if p.selected >= len(p.suggestions) {
			p.selected = 0
		}
	}
}

// filter returns the replies whose title matches the "/prefix" input.
func (p *QuickReplyPicker) filter(input string) []types.QuickReply {
	query := strings.ToLower(strings.TrimPrefix(input, "/"))
	if query == "" {
		return p.replies
	}

	var matches []types.QuickReply
	for _, qr := range p.replies {
		if strings.HasPrefix(strings.ToLower(qr.Title), query) {
			matches = append(matches, qr)
		}
	}
	return matches
}

// Update updates picker state based on input
func (p *QuickReplyPicker) Update(input string) {
	if strings.HasPrefix(input, "/") && !strings.Contains(input, " ") {
		p.active = true
		p.prefix = input
		p.suggestions = p.filter(input)
		if p.selected >= len(p.suggestions) {
			p.selected = 0
		}
	} else {
		p.active = false
		p.suggestions = nil
		p.selected = 0
	}
}

// IsActive returns true if the popup should be shown
func (p *QuickReplyPicker) IsActive() bool {
	return p.active && len(p.suggestions) > 0
}

// Next selects the next suggestion
func (p *QuickReplyPicker) Next() {
	if len(p.suggestions) == 0 {
		return
	}
	p.selected = (p.selected + 1) % len(p.suggestions)
}

// Prev selects the previous suggestion
func (p *QuickReplyPicker) Prev() {
	if len(p.suggestions) == 0 {
		return
	}
	p.selected--
	if p.selected < 0 {
		p.selected = len(p.suggestions) - 1
	}
}

// Selected returns the message body of the highlighted reply.
func (p *QuickReplyPicker) Selected() string {
	if len(p.suggestions) == 0 {
		return ""
	}
	return p.suggestions[p.selected].Message
}

// Reset clears picker state
func (p *QuickReplyPicker) Reset() {
	p.active = false
	p.suggestions = nil
	p.selected = 0
	p.prefix = ""
}

// View renders the quick-reply popup
func (p *QuickReplyPicker) View(width int) string {
	if !p.IsActive() {
		return ""
	}

	popupStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondaryColor).
		Padding(0, 1)

	selectedStyle := lipgloss.NewStyle().
		Background(secondaryColor).
		Foreground(lipgloss.Color("#FFFFFF"))

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E5E7EB"))

	previewStyle := lipgloss.NewStyle().
		Foreground(dimColor)

	maxPreview := width - 24
	if maxPreview < 10 {
		maxPreview = 10
	}

	var lines []string
	for i, qr := range p.suggestions {
		title := qr.Title
		for len(title) < 16 {
			title += " "
		}
		preview := truncate(qr.Message, maxPreview)

		if i == p.selected {
			lines = append(lines, selectedStyle.Render(title+" "+preview))
		} else {
			lines = append(lines, normalStyle.Render(title)+previewStyle.Render("  "+preview))
		}
	}

	content := strings.Join(lines, "\n")
	return popupStyle.Render(content)
}
