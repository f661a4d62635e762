package metrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics is the set of tracker counters. Fields are updated with sync/atomic.
type Metrics struct {
	// ======================
	// Click handling
	// ======================

	// ClicksTotal
	// - every click that reached the delegated listener
	ClicksTotal int64

	// ClicksUnmatchedTotal
	// - clicks with no instrumented ancestor, or whose element matched no rule
	ClicksUnmatchedTotal int64

	// HandlerPanicsTotal
	// - panics recovered at the click handler boundary
	HandlerPanicsTotal int64

	// ======================
	// Emission
	// ======================

	// EventsEmittedTotal
	// - events built by Transport.Emit, debug or not
	EventsEmittedTotal int64

	// EventsDebugTotal
	// - events routed to the debug log/panel instead of the network
	EventsDebugTotal int64

	// ======================
	// Delivery
	// ======================

	// SendsTotal
	// - fire-and-forget deliveries that completed without error
	SendsTotal int64

	// SendFallbacksTotal
	// - deliveries where the preferred sender was unavailable or failed
	SendFallbacksTotal int64

	// SendErrorsTotal
	// - deliveries that failed on every sender (dropped)
	SendErrorsTotal int64
}

func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) String() string {
	var sb strings.Builder
	sb.Grow(256)

	fmt.Fprintf(&sb, "clicks_total=%d\n", atomic.LoadInt64(&m.ClicksTotal))
	fmt.Fprintf(&sb, "clicks_unmatched_total=%d\n", atomic.LoadInt64(&m.ClicksUnmatchedTotal))
	fmt.Fprintf(&sb, "handler_panics_total=%d\n", atomic.LoadInt64(&m.HandlerPanicsTotal))

	fmt.Fprintf(&sb, "events_emitted_total=%d\n", atomic.LoadInt64(&m.EventsEmittedTotal))
	fmt.Fprintf(&sb, "events_debug_total=%d\n", atomic.LoadInt64(&m.EventsDebugTotal))

	fmt.Fprintf(&sb, "sends_total=%d\n", atomic.LoadInt64(&m.SendsTotal))
	fmt.Fprintf(&sb, "send_fallbacks_total=%d\n", atomic.LoadInt64(&m.SendFallbacksTotal))
	fmt.Fprintf(&sb, "send_errors_total=%d\n", atomic.LoadInt64(&m.SendErrorsTotal))

	return sb.String()
}
