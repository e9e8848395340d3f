package particles

import (
	"beatmeat/internal/clock"
	"beatmeat/internal/utility"
	"math"
	"math/rand"
	"sort"
	"time"
)

const (
	ConstrainedBatch = 8
	DefaultBatch     = 18
	MinDistance      = 120
	MaxDistance      = 370
	MaxDelay         = 300 * time.Millisecond
	MaxRotation      = 360
	MinTTL           = 1500 * time.Millisecond
	MaxTTL           = 2000 * time.Millisecond
)

// Store holds live particles. Batches are additive; each one removes only
// its own IDs when its TTL passes. Not safe for concurrent use.
type Store struct {
	clock     clock.Clock
	rng       *rand.Rand
	batch     int
	ttl       time.Duration
	particles map[uint64]Particle
	nextID    uint64
	onExpire  func(ids []uint64)
}

type Options struct {
	Constrained bool
	TTL         time.Duration
	Rand        *rand.Rand
	OnExpire    func(ids []uint64)
}

func NewStore(c clock.Clock, opts Options) *Store {
	batch := DefaultBatch
	if opts.Constrained {
		batch = ConstrainedBatch
	}
	ttl := opts.TTL
	if ttl < MinTTL || ttl > MaxTTL {
		ttl = MaxTTL
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	onExpire := opts.OnExpire
	if onExpire == nil {
		onExpire = func([]uint64) {}
	}
	return &Store{
		clock:     c,
		rng:       rng,
		batch:     batch,
		ttl:       ttl,
		particles: make(map[uint64]Particle),
		nextID:    1,
		onExpire:  onExpire,
	}
}

// BatchSize is the number of particles every Spawn produces.
func (s *Store) BatchSize() int { return s.batch }

// Spawn creates one batch and schedules its removal.
func (s *Store) Spawn() Burst {
	burst := Burst{
		Particles: make([]Particle, 0, s.batch),
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}
	for i := 0; i < s.batch; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		distance := MinDistance + s.rng.Float64()*(MaxDistance-MinDistance)
		p := Particle{
			ID:       s.nextID,
			DX:       math.Cos(angle) * distance,
			DY:       math.Sin(angle) * distance,
			Symbol:   utility.RandomSymbol(s.rng),
			Delay:    time.Duration(s.rng.Int63n(int64(MaxDelay) + 1)),
			Rotation: s.rng.Float64()*2*MaxRotation - MaxRotation,
		}
		s.nextID++
		s.particles[p.ID] = p
		burst.Particles = append(burst.Particles, p)
	}

	ids := burst.IDs()
	s.clock.AfterFunc(s.ttl, func() { s.remove(ids) })
	return burst
}

func (s *Store) remove(ids []uint64) {
	for _, id := range ids {
		delete(s.particles, id)
	}
	s.onExpire(ids)
}

func (s *Store) Get(id uint64) (Particle, bool) {
	p, ok := s.particles[id]
	return p, ok
}

// GetList returns live particles ordered by ID.
func (s *Store) GetList() []Particle {
	list := make([]Particle, 0, len(s.particles))
	for _, p := range s.particles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *Store) Len() int { return len(s.particles) }
