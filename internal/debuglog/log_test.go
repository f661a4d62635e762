package debuglog

import (
	"testing"

	"clicktrack/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAppendKeepsOrder(t *testing.T) {
	l := New()
	l.Append(model.NewEvent(model.KindNav, model.Payload{"item": "paper"}, "/"))
	l.Append(model.NewEvent(model.KindCTA, model.Payload{"cta_id": "paper_card"}, "/"))

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, []model.Kind{model.KindNav, model.KindCTA}, l.Names())
}

func TestEventsIsSnapshot(t *testing.T) {
	l := New()
	l.Append(model.NewEvent(model.KindNav, nil, "/"))

	snap := l.Events()
	l.Append(model.NewEvent(model.KindCTA, nil, "/"))

	assert.Len(t, snap, 1)
	assert.Equal(t, 2, l.Len())
}
