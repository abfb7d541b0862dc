// Package events provides the synchronous publish-subscribe bus the
// selector controller raises its selection events on.
package events

import (
	"slices"
	"sync"
)

// Kind names a selection event.
type Kind string

const (
	ProvinceChange    Kind = "provinceChange"
	DistrictChange    Kind = "districtChange"
	SubDistrictChange Kind = "subDistrictChange"
	// SelectChange follows any of the above when all three levels are set.
	SelectChange Kind = "selectChange"
)

// Event carries the selection at the time it was raised. Fields that do not
// apply to Kind are left empty.
type Event struct {
	Kind        Kind   `json:"kind"`
	Province    string `json:"province,omitempty"`
	District    string `json:"district,omitempty"`
	SubDistrict string `json:"sub_district,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`
}

// Listener receives published events.
type Listener func(Event)

type subscription struct {
	kind Kind
	fn   Listener
}

// Bus delivers events to listeners synchronously, in subscription order.
// Listeners may subscribe or unsubscribe from inside a callback; the change
// applies from the next Publish.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]subscription
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]subscription),
	}
}

// Subscribe registers fn for events of kind, or for every event when kind
// is empty. The returned ID is passed to Unsubscribe.
func (b *Bus) Subscribe(kind Kind, fn Listener) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.subs[b.next] = subscription{kind: kind, fn: fn}
	return b.next
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Publish calls every listener subscribed to ev.Kind.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id, sub := range b.subs {
		if sub.kind == "" || sub.kind == ev.Kind {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	listeners := make([]Listener, len(ids))
	for i, id := range ids {
		listeners[i] = b.subs[id].fn
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
