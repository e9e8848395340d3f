package audio

import (
	"beatmeat/internal/clock"
	"log"
)

// Player routes sound requests through its strategies. Failures are logged
// and swallowed. Not safe for concurrent use.
type Player struct {
	clock      clock.Clock
	strategies []Strategy
	gate       Gate
	background Unit
	bgStarted  bool
	onPlay     func(req Request, via string)
}

type PlayerOptions struct {
	Strategies []Strategy
	Background Unit
	// OnPlay is called after a request was played.
	OnPlay func(req Request, via string)
}

func NewPlayer(c clock.Clock, opts PlayerOptions) *Player {
	onPlay := opts.OnPlay
	if onPlay == nil {
		onPlay = func(Request, string) {}
	}
	return &Player{
		clock:      c,
		strategies: opts.Strategies,
		background: opts.Background,
		onPlay:     onPlay,
	}
}

// Play tries each strategy in order and reports whether any succeeded.
func (p *Player) Play(req Request) bool {
	for _, s := range p.strategies {
		if !s.Available(req.Category) {
			continue
		}
		if err := s.Play(req); err != nil {
			log.Printf("[Audio] %s path failed for %s: %v\n", s.Name(), req.Category, err)
			continue
		}
		p.onPlay(req, s.Name())
		return true
	}
	log.Printf("[Audio] no path could play %s\n", req.Category)
	return false
}

// Click plays the slap every click gets.
func (p *Player) Click() {
	p.Play(Request{Category: Slap, Volume: SlapVolume})
}

// Milestone schedules the bonus sound for count, if any.
func (p *Player) Milestone(count uint64) (Milestone, bool) {
	m, ok := MilestoneFor(count)
	if !ok {
		return m, false
	}
	p.clock.AfterFunc(m.Delay, func() { p.Play(m.Request) })
	return m, true
}

// Interact is called on every user input. The first one opens the gate;
// background music starts once and is never restarted after that.
func (p *Player) Interact() {
	if p.gate.Unlock() {
		log.Printf("[Audio] first interaction, audio unlocked\n")
	}
	p.startBackground()
}

func (p *Player) Unlocked() bool { return p.gate.Unlocked() }

func (p *Player) BackgroundStarted() bool { return p.bgStarted }

func (p *Player) startBackground() {
	if p.bgStarted || p.background == nil || !p.gate.Unlocked() {
		return
	}
	p.background.SetVolume(BackgroundVolume)
	if err := p.background.Play(); err != nil {
		log.Printf("[Audio] background music blocked: %v\n", err)
		return
	}
	p.bgStarted = true
	p.onPlay(Request{Category: Background, Volume: BackgroundVolume}, "loop")
}
