// Package disco classifies sustained rapid clicking.
package disco

import (
	"time"

	"beatmeat/internal/clock"
)

const (
	Window    = 2 * time.Second
	Threshold = 5
	Hold      = 5 * time.Second
)

// Detector tracks recent clicks in a sliding window. Active turns on once
// Threshold clicks land inside Window, stays on while clicking keeps up, and
// turns off either when the rate drops or Hold passes without a qualifying
// click. Not safe for concurrent use.
type Detector struct {
	clock    clock.Clock
	window   []time.Time
	active   bool
	off      clock.Timer
	onChange func(active bool)
}

func New(c clock.Clock, onChange func(active bool)) *Detector {
	if onChange == nil {
		onChange = func(bool) {}
	}
	return &Detector{clock: c, onChange: onChange}
}

func (d *Detector) Active() bool { return d.active }

// WindowLen is the number of clicks inside the current window.
func (d *Detector) WindowLen() int { return len(d.window) }

// Click records a click at the current time and returns the new state.
func (d *Detector) Click() bool {
	now := d.clock.Now()
	d.window = append(d.window, now)
	d.prune(now)

	if len(d.window) >= Threshold {
		if d.off != nil {
			d.off.Stop()
		}
		d.off = d.clock.AfterFunc(Hold, d.expire)
		d.set(true)
	} else if d.active {
		d.cancel()
		d.set(false)
	}
	return d.active
}

func (d *Detector) prune(now time.Time) {
	cutoff := now.Add(-Window)
	i := 0
	for i < len(d.window) && d.window[i].Before(cutoff) {
		i++
	}
	d.window = d.window[i:]
}

func (d *Detector) expire() {
	d.off = nil
	d.set(false)
}

func (d *Detector) cancel() {
	if d.off != nil {
		d.off.Stop()
		d.off = nil
	}
}

func (d *Detector) set(active bool) {
	if d.active == active {
		return
	}
	d.active = active
	d.onChange(active)
}
