// Package debuglog holds the events emitted while debug mode is on.
//
// The log is created with the tracker, lives as long as the page (or
// process), and is only ever appended to.
package debuglog

import (
	"sync"

	"clicktrack/internal/model"
)

type Log struct {
	mu     sync.Mutex
	events []model.Event
}

func New() *Log {
	return &Log{}
}

func (l *Log) Append(ev model.Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

// Events returns a snapshot in emission order.
func (l *Log) Events() []model.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Event, len(l.events))
	copy(out, l.events)
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Names lists event names in emission order.
func (l *Log) Names() []model.Kind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Kind, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Name
	}
	return out
}
