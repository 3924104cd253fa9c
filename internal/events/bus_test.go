package events

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

func quietBus(buf *bytes.Buffer) *Bus {
	return NewBus(log.New(buf))
}

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	var buf bytes.Buffer
	b := quietBus(&buf)

	var got []string
	b.Subscribe(core.EventPieceLocked, func(core.Event) { got = append(got, "locked-1") })
	b.Subscribe(All, func(e core.Event) { got = append(got, "all:"+string(e.Kind)) })
	b.Subscribe(core.EventPieceLocked, func(core.Event) { got = append(got, "locked-2") })
	b.Subscribe(core.EventLinesCleared, func(core.Event) { got = append(got, "lines") })

	b.PublishAll([]core.Event{
		{Kind: core.EventPieceLocked},
		{Kind: core.EventLinesCleared, Lines: 2},
	})

	assert.Equal(t, []string{
		"locked-1", "all:piece_locked", "locked-2",
		"all:lines_cleared", "lines",
	}, got)
}

func TestPanickingListenerIsIsolated(t *testing.T) {
	var buf bytes.Buffer
	b := quietBus(&buf)

	delivered := 0
	b.Subscribe(All, func(core.Event) { panic("boom") })
	b.Subscribe(All, func(core.Event) { delivered++ })

	require.NotPanics(t, func() {
		b.Publish(core.Event{Kind: core.EventTopOut, Tick: 42})
	})
	assert.Equal(t, 1, delivered)

	published, faults := b.Stats()
	assert.Equal(t, uint64(1), published)
	assert.Equal(t, uint64(1), faults)
	assert.Contains(t, buf.String(), "listener panicked")
	assert.Contains(t, buf.String(), "boom")
}

func TestUnsubscribe(t *testing.T) {
	b := quietBus(&bytes.Buffer{})

	count := 0
	unsub := b.Subscribe(core.EventHoldUsed, func(core.Event) { count++ })
	b.Publish(core.Event{Kind: core.EventHoldUsed})
	unsub()
	unsub()
	b.Publish(core.Event{Kind: core.EventHoldUsed})

	assert.Equal(t, 1, count)
	assert.Zero(t, b.Len())
}

func TestSubscribeDuringPublishAppliesNextTime(t *testing.T) {
	b := quietBus(&bytes.Buffer{})

	late := 0
	b.Subscribe(All, func(core.Event) {
		if b.Len() == 1 {
			b.Subscribe(All, func(core.Event) { late++ })
		}
	})

	b.Publish(core.Event{Kind: core.EventPieceSpawned})
	assert.Zero(t, late)
	b.Publish(core.Event{Kind: core.EventPieceSpawned})
	assert.Equal(t, 1, late)
}
