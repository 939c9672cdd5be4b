// Package metrics counts what the console has seen this run: realtime
// events by type, reconnects, messages sent. The counters feed the dash
// status bar and `jecrm status`; nothing is exported anywhere.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Collector holds all counters
type Collector struct {
	eventsTotal  map[string]*atomic.Int64 // by event type
	reconnects   atomic.Int64
	messagesSent atomic.Int64
	toastsShown  atomic.Int64
	mu           sync.RWMutex
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		eventsTotal: make(map[string]*atomic.Int64),
	}
}

// IncrementEvent increments the counter for a realtime event type
func (c *Collector) IncrementEvent(eventType string) {
	c.mu.Lock()
	counter, ok := c.eventsTotal[eventType]
	if !ok {
		counter = &atomic.Int64{}
		c.eventsTotal[eventType] = counter
	}
	c.mu.Unlock()
	counter.Add(1)
}

// IncrementReconnects counts one channel reconnection
func (c *Collector) IncrementReconnects() {
	c.reconnects.Add(1)
}

// IncrementMessagesSent counts one outbound agent message
func (c *Collector) IncrementMessagesSent() {
	c.messagesSent.Add(1)
}

// IncrementToasts counts one surfaced toast
func (c *Collector) IncrementToasts() {
	c.toastsShown.Add(1)
}

// EventsTotal returns event counts by type
func (c *Collector) EventsTotal() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]int64, len(c.eventsTotal))
	for typ, counter := range c.eventsTotal {
		result[typ] = counter.Load()
	}
	return result
}

// Reconnects returns the reconnection count
func (c *Collector) Reconnects() int64 {
	return c.reconnects.Load()
}

// MessagesSent returns the outbound message count
func (c *Collector) MessagesSent() int64 {
	return c.messagesSent.Load()
}

// ToastsShown returns the toast count
func (c *Collector) ToastsShown() int64 {
	return c.toastsShown.Load()
}

// Summary renders a one-line digest for the status bar,
// e.g. "events:12 sent:3 reconnects:1".
func (c *Collector) Summary() string {
	var total int64
	for _, n := range c.EventsTotal() {
		total += n
	}
	return fmt.Sprintf("events:%d sent:%d reconnects:%d", total, c.MessagesSent(), c.Reconnects())
}

// Report renders the full multi-line breakdown for `jecrm status`.
func (c *Collector) Report() string {
	var sb strings.Builder

	events := c.EventsTotal()
	keys := make([]string, 0, len(events))
	for k := range events {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-22s %d\n", "events_"+k, events[k]))
	}
	sb.WriteString(fmt.Sprintf("  %-22s %d\n", "messages_sent", c.MessagesSent()))
	sb.WriteString(fmt.Sprintf("  %-22s %d\n", "reconnects", c.Reconnects()))
	sb.WriteString(fmt.Sprintf("  %-22s %d\n", "toasts_shown", c.ToastsShown()))
	return sb.String()
}
