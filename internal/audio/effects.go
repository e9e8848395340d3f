package audio

import "beatmeat/internal/events"

// Played is the sound effect payload handed to presentation.
type Played struct {
	Category Category
	Volume   float64
	Via      string
	Slot     int
	Loop     bool
}

// EffectUnit is a pool slot that plays by emitting a sound effect.
type EffectUnit struct {
	bus      *events.Bus
	category Category
	slot     int
	loop     bool
	volume   float64
	rewinds  int
}

func NewEffectUnit(bus *events.Bus, c Category, slot int, loop bool) *EffectUnit {
	return &EffectUnit{bus: bus, category: c, slot: slot, loop: loop}
}

func (u *EffectUnit) Rewind()             { u.rewinds++ }
func (u *EffectUnit) SetVolume(v float64) { u.volume = v }

func (u *EffectUnit) Play() error {
	u.bus.Emit(events.KindSound, Played{
		Category: u.category,
		Volume:   u.volume,
		Via:      "pool",
		Slot:     u.slot,
		Loop:     u.loop,
	})
	return nil
}

// EffectMixer plays decoded buffers by emitting sound effects.
type EffectMixer struct {
	bus     *events.Bus
	decoded map[Category]bool
}

func NewEffectMixer(bus *events.Bus) *EffectMixer {
	return &EffectMixer{bus: bus, decoded: make(map[Category]bool)}
}

// MarkDecoded makes a category available on the buffer path.
func (m *EffectMixer) MarkDecoded(c Category) {
	m.decoded[c] = true
}

func (m *EffectMixer) Decoded(c Category) bool { return m.decoded[c] }

func (m *EffectMixer) PlayBuffer(c Category, volume float64) error {
	m.bus.Emit(events.KindSound, Played{Category: c, Volume: volume, Via: "buffer", Slot: -1})
	return nil
}

// NewEffectPools builds size effect units for every pooled category.
func NewEffectPools(bus *events.Bus, size int) map[Category]*Pool {
	if size <= 0 {
		size = DefaultPool
	}
	pools := make(map[Category]*Pool, len(Effects))
	for _, c := range Effects {
		units := make([]Unit, size)
		for i := range units {
			units[i] = NewEffectUnit(bus, c, i, false)
		}
		pools[c] = NewPool(units)
	}
	return pools
}

// NewStrategies returns the fixed try-order. Constrained devices skip the
// buffer path.
func NewStrategies(bus *events.Bus, poolSize int, constrained bool) ([]Strategy, *EffectMixer) {
	pools := NewPoolStrategy(NewEffectPools(bus, poolSize))
	if constrained {
		return []Strategy{pools}, nil
	}
	mixer := NewEffectMixer(bus)
	for _, c := range Effects {
		mixer.MarkDecoded(c)
	}
	return []Strategy{&BufferStrategy{Mixer: mixer}, pools}, mixer
}
