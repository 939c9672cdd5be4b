// Package notify surfaces out-of-terminal alerts for new orders and
// unread messages: a desktop notification when a notifier command is
// available, always accompanied by the terminal bell.
package notify

import (
	"errors"
	"io"
	"os/exec"
	"strings"
)

// ErrNoNotifyCommand is returned when no notifier command is configured or available
var ErrNoNotifyCommand = errors.New("no notifier command available")

// Notifier sends desktop notifications via an external command.
type Notifier struct {
	Command string    // notify-send, osascript, etc.
	Bell    io.Writer // receives the BEL byte; nil disables the bell
}

// New creates a Notifier with the given command.
// If command is empty, it will auto-detect an available notifier.
func New(command string, bell io.Writer) *Notifier {
	if command == "" {
		command = DetectCommand()
	}
	return &Notifier{Command: command, Bell: bell}
}

// DetectCommand attempts to find an available notifier command on the
// system. Returns empty string if none found.
func DetectCommand() string {
	commands := []string{
		"notify-send", // Linux desktops
		"osascript",   // macOS
	}

	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

// Available returns true if the notifier command is available
func (n *Notifier) Available() bool {
	if n.Command == "" {
		return false
	}
	_, err := exec.LookPath(n.Command)
	return err == nil
}

// BuildCommand builds the command and arguments for a notification.
func (n *Notifier) BuildCommand(title, body string) (cmd string, args []string) {
	switch n.Command {
	case "osascript":
		script := "display notification " + appleQuote(body) + " with title " + appleQuote(title)
		return n.Command, []string{"-e", script}
	default:
		// notify-send and compatible notifiers take title then body
		return n.Command, []string{title, body}
	}
}

// appleQuote wraps s in double quotes for AppleScript, escaping embedded quotes.
func appleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Ring writes the terminal bell. The dash uses it on every alert even
// when no desktop notifier exists.
func (n *Notifier) Ring() {
	if n.Bell != nil {
		n.Bell.Write([]byte("\a"))
	}
}

// Send rings the bell and raises a desktop notification. An empty title
// is a no-op; a missing notifier command still rings the bell.
func (n *Notifier) Send(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	n.Ring()

	if n.Command == "" {
		return ErrNoNotifyCommand
	}

	cmdName, args := n.BuildCommand(title, body)
	return exec.Command(cmdName, args...).Run()
}
