package audio

// Unit is one playback handle.
type Unit interface {
	Rewind()
	SetVolume(v float64)
	Play() error
}

// Pool hands out units round-robin. It never waits for a unit to finish;
// the next index is reclaimed even if it is still playing.
type Pool struct {
	units  []Unit
	cursor int
}

func NewPool(units []Unit) *Pool {
	return &Pool{units: units}
}

func (p *Pool) Len() int { return len(p.units) }

// Cursor is the index Next will return.
func (p *Pool) Cursor() int { return p.cursor }

func (p *Pool) Next() Unit {
	if len(p.units) == 0 {
		return nil
	}
	u := p.units[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.units)
	return u
}
