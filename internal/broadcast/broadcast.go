package broadcast

import (
	"beatmeat/internal/events"
	"sync"
)

// Broadcaster fans effects out to every presentation subscriber.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan events.Effect]bool
}

func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan events.Effect]bool),
	}
	go func() {
		for ev := range bus.Effects {
			b.Publish(ev)
		}
	}()
	return b
}

func (b *Broadcaster) Subscribe() chan events.Effect {
	ch := make(chan events.Effect, 32)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan events.Effect) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if _, ok := b.Clients[ch]; !ok {
		return
	}
	delete(b.Clients, ch)
	close(ch)
}

func (b *Broadcaster) Publish(ev events.Effect) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- ev:
		default:
			// skip subscribers that fell behind
		}
	}
}
