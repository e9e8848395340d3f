package particles

import "time"

type Particle struct {
	ID       uint64
	DX       float64
	DY       float64
	Symbol   string
	Delay    time.Duration
	Rotation float64 // degrees
}

// Burst is the batch spawned by one click.
type Burst struct {
	Particles []Particle
	ExpiresAt time.Time
}

// IDs returns the batch's particle IDs in order.
func (b Burst) IDs() []uint64 {
	ids := make([]uint64, len(b.Particles))
	for i, p := range b.Particles {
		ids[i] = p.ID
	}
	return ids
}
