package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribePublishClose(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("records")
	assert.Equal(t, 1, h.SubscriberCount("records"))

	h.Publish("records", []Item{{"id": float64(1), "subject": "water supply"}})
	select {
	case snap := <-sub.C:
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "records", snap.Collection)
		assert.Equal(t, "water supply", snap.Items[0]["subject"])
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	sub.Close()
	assert.Equal(t, 0, h.SubscriberCount("records"))
	_, open := <-sub.C
	assert.False(t, open, "channel closed after Close")
	sub.Close() // idempotent
}

func TestSlowSubscriberSeesLatestOnly(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("diary")
	defer sub.Close()

	h.Publish("diary", []Item{{"id": float64(1)}})
	h.Publish("diary", []Item{{"id": float64(1)}, {"id": float64(2)}})
	h.Publish("diary", []Item{{"id": float64(1)}, {"id": float64(2)}, {"id": float64(3)}})

	snap := <-sub.C
	assert.Len(t, snap.Items, 3, "pending snapshot is the newest")
	select {
	case <-sub.C:
		t.Fatal("stale snapshot left behind")
	default:
	}
}

func TestPublishDoesNotCrossCollections(t *testing.T) {
	h := NewHub()
	records := h.Subscribe("records")
	diary := h.Subscribe("diary")
	defer records.Close()
	defer diary.Close()

	h.Publish("records", []Item{{"id": float64(7)}})
	select {
	case <-diary.C:
		t.Fatal("diary subscriber got a records snapshot")
	case <-time.After(20 * time.Millisecond):
	}
	snap := <-records.C
	assert.Equal(t, "records", snap.Collection)
}

func TestFlatten(t *testing.T) {
	type row struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	items := Flatten([]row{{1, "a"}, {2, "b"}})
	require.Len(t, items, 2)
	assert.Equal(t, float64(2), items[1]["id"])
	assert.Equal(t, "b", items[1]["name"])

	assert.Nil(t, Flatten(42), "non-slice input yields nil")
}
