package progress

import "sync"

// Broker fans out change notifications per child. Every insert that could
// affect a child's session queries produces one notification to each active
// subscriber; notifications are coalescing, so a slow subscriber sees at
// least one wakeup for any burst of writes.
type Broker struct {
	mu   sync.RWMutex
	subs map[uint]map[chan struct{}]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[uint]map[chan struct{}]struct{})}
}

// Notify wakes every subscriber watching the given child. Never blocks the
// writer.
func (b *Broker) Notify(childID uint) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[childID] {
		select {
		case ch <- struct{}{}:
		default:
			// A pending wakeup already covers this write.
		}
	}
}

// Subscribe registers interest in a child's session changes. The returned
// cancel func must be called when the subscriber stops observing.
func (b *Broker) Subscribe(childID uint) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[childID] == nil {
		b.subs[childID] = make(map[chan struct{}]struct{})
	}
	b.subs[childID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs[childID], ch)
		if len(b.subs[childID]) == 0 {
			delete(b.subs, childID)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// SubscriberCount reports the number of active subscribers for a child.
func (b *Broker) SubscriberCount(childID uint) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[childID])
}
