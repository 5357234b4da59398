// Package feed is the live-update backbone of the console. Writers publish
// the full ordered snapshot of a collection after every successful mutation;
// each connected view holds exactly one subscription per collection and is
// torn down deterministically when the view goes away. A subscriber that
// lags only ever sees the latest snapshot, never a backlog.
package feed

import (
	"encoding/json"
	"sync"
)

// Item is one row of a published snapshot: the record id flattened together
// with its fields, the shape the console renders directly.
type Item map[string]any

// Snapshot is the full ordered state of one collection at publish time.
type Snapshot struct {
	Collection string `json:"collection"`
	Items      []Item `json:"items"`
}

type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

type Subscription struct {
	// C delivers snapshots. Closed by Close; never by the hub.
	C    chan Snapshot
	path string
	hub  *Hub
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a listener on a collection path. The caller owns the
// subscription and must Close it when its view unmounts.
func (h *Hub) Subscribe(path string) *Subscription {
	s := &Subscription{C: make(chan Snapshot, 1), path: path, hub: h}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[path] == nil {
		h.subs[path] = make(map[*Subscription]struct{})
	}
	h.subs[path][s] = struct{}{}
	return s
}

// Close removes the subscription and closes its channel. Idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if set, ok := h.subs[s.path]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.path)
			}
		}
		h.mu.Unlock()
		close(s.C)
	})
}

// Publish pushes a snapshot to every subscriber of the path. A full buffer is
// drained first so the pending element is always the newest snapshot.
func (h *Hub) Publish(path string, items []Item) {
	snap := Snapshot{Collection: path, Items: items}
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[path] {
		select {
		case <-s.C:
		default:
		}
		s.C <- snap
	}
}

// SubscriberCount reports active subscriptions on a path.
func (h *Hub) SubscriberCount(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[path])
}

// Flatten converts a slice of persisted rows into feed items via their JSON
// shape, preserving order. Rows that fail to marshal are skipped.
func Flatten(rows any) []Item {
	b, err := json.Marshal(rows)
	if err != nil {
		return nil
	}
	var items []Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	return items
}
