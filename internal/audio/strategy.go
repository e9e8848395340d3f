package audio

import (
	"errors"
	"fmt"
)

var ErrNoUnit = errors.New("no playback unit")

// Strategy is one way of getting a sound out. Player tries them in order.
type Strategy interface {
	Name() string
	Available(c Category) bool
	Play(req Request) error
}

// Mixer plays pre-decoded buffers through a shared context.
type Mixer interface {
	Decoded(c Category) bool
	PlayBuffer(c Category, volume float64) error
}

type BufferStrategy struct {
	Mixer Mixer
}

func (s *BufferStrategy) Name() string { return "buffer" }

func (s *BufferStrategy) Available(c Category) bool {
	return s.Mixer != nil && s.Mixer.Decoded(c)
}

func (s *BufferStrategy) Play(req Request) error {
	return s.Mixer.PlayBuffer(req.Category, req.Volume)
}

type PoolStrategy struct {
	pools map[Category]*Pool
}

func NewPoolStrategy(pools map[Category]*Pool) *PoolStrategy {
	return &PoolStrategy{pools: pools}
}

func (s *PoolStrategy) Name() string { return "pool" }

func (s *PoolStrategy) Available(c Category) bool {
	p, ok := s.pools[c]
	return ok && p.Len() > 0
}

func (s *PoolStrategy) Play(req Request) error {
	p, ok := s.pools[req.Category]
	if !ok {
		return fmt.Errorf("pool %s: %w", req.Category, ErrNoUnit)
	}
	u := p.Next()
	if u == nil {
		return fmt.Errorf("pool %s: %w", req.Category, ErrNoUnit)
	}
	u.Rewind()
	u.SetVolume(req.Volume)
	if err := u.Play(); err != nil {
		return fmt.Errorf("playing %s: %w", req.Category, err)
	}
	return nil
}

// Pool returns the pool backing a category, for inspection.
func (s *PoolStrategy) Pool(c Category) *Pool {
	return s.pools[c]
}
