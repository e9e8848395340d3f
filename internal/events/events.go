package events

import (
	"log"
	"sync/atomic"
)

type Kind string

const (
	KindSound         = Kind("sound")
	KindBurst         = Kind("burst")
	KindBurstExpired  = Kind("burst_expired")
	KindDisco         = Kind("disco")
	KindSmoke         = Kind("smoke")
	KindPunch         = Kind("punch")
	KindEncouragement = Kind("encouragement")
	KindStats         = Kind("stats")
	KindChat          = Kind("chat")
	KindConnection    = Kind("connection")
	KindTitle         = Kind("title")
)

// Effect is a descriptor handed to presentation. Payload type depends on Kind.
type Effect struct {
	Kind    Kind
	Payload any
}

type Bus struct {
	Effects chan Effect
	dropped atomic.Uint64
}

func NewBus() *Bus {
	return &Bus{
		Effects: make(chan Effect, 64),
	}
}

// Emit queues an effect without blocking. Effects are cosmetic, so a full
// queue drops the newest one.
func (b *Bus) Emit(kind Kind, payload any) {
	select {
	case b.Effects <- Effect{Kind: kind, Payload: payload}:
	default:
		if b.dropped.Add(1)%100 == 1 {
			log.Printf("[Bus] effect queue full, dropping %s\n", kind)
		}
	}
}

// Dropped reports how many effects were discarded because the queue was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
