package store

import (
	"time"

	"github.com/google/uuid"
)

// DefaultToastDuration is how long a toast stays up when the caller does
// not say otherwise.
const DefaultToastDuration = 5 * time.Second

// ToastType classifies a transient notification.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastInfo    ToastType = "info"
	ToastWarning ToastType = "warning"
)

// Toast is an ephemeral notice. It is removed after Duration or on
// explicit dismissal; nothing persists it.
type Toast struct {
	ID       string
	Message  string
	Type     ToastType
	Duration time.Duration
}

// EnqueueToast appends a toast and returns its generated id. The expiry
// timer belongs to the consumer rendering the queue, not to the store.
func (s *Store) EnqueueToast(message string, typ ToastType, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	if typ == "" {
		typ = ToastInfo
	}

	toast := Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Type:     typ,
		Duration: duration,
	}

	s.mu.Lock()
	s.toasts = append(s.toasts, toast)
	s.mu.Unlock()
	s.notify()
	return toast.ID
}

// DismissToast removes a toast by id; unknown ids are a no-op.
func (s *Store) DismissToast(id string) {
	s.mu.Lock()
	kept := s.toasts[:0]
	for _, t := range s.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.toasts = kept
	s.mu.Unlock()
	s.notify()
}

// ClearToasts drops the whole queue.
func (s *Store) ClearToasts() {
	s.mu.Lock()
	s.toasts = nil
	s.mu.Unlock()
	s.notify()
}

// Toasts returns a copy of the pending toast queue.
func (s *Store) Toasts() []Toast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Toast, len(s.toasts))
	copy(out, s.toasts)
	return out
}
