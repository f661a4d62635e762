package metrics

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	m := New()
	atomic.AddInt64(&m.ClicksTotal, 3)
	atomic.AddInt64(&m.SendErrorsTotal, 1)

	out := m.String()
	assert.Contains(t, out, "clicks_total=3\n")
	assert.Contains(t, out, "send_errors_total=1\n")
	assert.Contains(t, out, "events_emitted_total=0\n")
}
