package audio

import (
	"beatmeat/internal/clock"
	"beatmeat/internal/events"
	"errors"
	"testing"
	"time"
)

type fakeUnit struct {
	name    string
	plays   int
	rewinds int
	volume  float64
	err     error
	log     *[]string
}

func (u *fakeUnit) Rewind()             { u.rewinds++ }
func (u *fakeUnit) SetVolume(v float64) { u.volume = v }
func (u *fakeUnit) Play() error {
	if u.log != nil {
		*u.log = append(*u.log, u.name)
	}
	if u.err != nil {
		return u.err
	}
	u.plays++
	return nil
}

type fakeStrategy struct {
	name      string
	available bool
	err       error
	played    []Request
}

func (s *fakeStrategy) Name() string            { return s.name }
func (s *fakeStrategy) Available(Category) bool { return s.available }
func (s *fakeStrategy) Play(req Request) error {
	if s.err != nil {
		return s.err
	}
	s.played = append(s.played, req)
	return nil
}

func TestMilestoneFor(t *testing.T) {
	tests := []struct {
		count    uint64
		want     Category
		wantOK   bool
		wantWait time.Duration
	}{
		{1, "", false, 0},
		{49, "", false, 0},
		{50, Bouta, true, 150 * time.Millisecond},
		{100, Bouta, true, 150 * time.Millisecond},
		{200, Bouta, true, 150 * time.Millisecond},
		{250, Chum, true, 100 * time.Millisecond},
		{300, Bouta, true, 150 * time.Millisecond},
		{500, Chum, true, 100 * time.Millisecond},
		{750, Chum, true, 100 * time.Millisecond},
		{251, "", false, 0},
	}
	for _, tc := range tests {
		m, ok := MilestoneFor(tc.count)
		if ok != tc.wantOK {
			t.Errorf("MilestoneFor(%d) ok = %v, want %v", tc.count, ok, tc.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if m.Request.Category != tc.want {
			t.Errorf("MilestoneFor(%d) = %s, want %s", tc.count, m.Request.Category, tc.want)
		}
		if m.Delay != tc.wantWait {
			t.Errorf("MilestoneFor(%d) delay = %v, want %v", tc.count, m.Delay, tc.wantWait)
		}
	}
}

func TestMilestoneFor_Exclusive(t *testing.T) {
	for c := uint64(1); c <= 2000; c++ {
		m, ok := MilestoneFor(c)
		switch {
		case c%250 == 0:
			if !ok || m.Request.Category != Chum {
				t.Fatalf("count %d: want chum, got %v %v", c, m.Request.Category, ok)
			}
		case c%50 == 0:
			if !ok || m.Request.Category != Bouta {
				t.Fatalf("count %d: want bouta, got %v %v", c, m.Request.Category, ok)
			}
		default:
			if ok {
				t.Fatalf("count %d: want no milestone, got %v", c, m.Request.Category)
			}
		}
	}
}

func TestPool_RoundRobinReclaims(t *testing.T) {
	a, b, c := &fakeUnit{name: "a"}, &fakeUnit{name: "b"}, &fakeUnit{name: "c"}
	p := NewPool([]Unit{a, b, c})

	var got []Unit
	for i := 0; i < 7; i++ {
		got = append(got, p.Next())
	}
	want := []Unit{a, b, c, a, b, c, a}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Next() #%d = %v, want %v", i, got[i].(*fakeUnit).name, want[i].(*fakeUnit).name)
		}
	}
	if p.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", p.Cursor())
	}
}

func TestPool_Empty(t *testing.T) {
	p := NewPool(nil)
	if u := p.Next(); u != nil {
		t.Errorf("Next() on empty pool = %v, want nil", u)
	}
}

func TestPoolStrategy_ResetsAndPlays(t *testing.T) {
	u := &fakeUnit{name: "slap0"}
	s := NewPoolStrategy(map[Category]*Pool{Slap: NewPool([]Unit{u})})

	if err := s.Play(Request{Category: Slap, Volume: 0.3}); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if u.rewinds != 1 || u.volume != 0.3 || u.plays != 1 {
		t.Errorf("unit = rewinds %d volume %v plays %d", u.rewinds, u.volume, u.plays)
	}
	if s.Available(Chum) {
		t.Error("Available(Chum) = true with no chum pool")
	}
	if err := s.Play(Request{Category: Chum}); !errors.Is(err, ErrNoUnit) {
		t.Errorf("Play(chum) error = %v, want ErrNoUnit", err)
	}
}

func TestPlayer_FallsBackInOrder(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	buffer := &fakeStrategy{name: "buffer", available: true, err: errors.New("decode failed")}
	pool := &fakeStrategy{name: "pool", available: true}
	var via string
	p := NewPlayer(c, PlayerOptions{
		Strategies: []Strategy{buffer, pool},
		OnPlay:     func(_ Request, v string) { via = v },
	})

	if !p.Play(Request{Category: Slap, Volume: 0.3}) {
		t.Fatal("Play() = false, want true")
	}
	if len(pool.played) != 1 {
		t.Errorf("pool played %d, want 1", len(pool.played))
	}
	if via != "pool" {
		t.Errorf("via = %q, want pool", via)
	}
}

func TestPlayer_SkipsUnavailable(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	buffer := &fakeStrategy{name: "buffer", available: false}
	pool := &fakeStrategy{name: "pool", available: true}
	p := NewPlayer(c, PlayerOptions{Strategies: []Strategy{buffer, pool}})

	p.Click()
	if len(buffer.played) != 0 || len(pool.played) != 1 {
		t.Errorf("buffer %d pool %d, want 0 and 1", len(buffer.played), len(pool.played))
	}
	if pool.played[0].Category != Slap || pool.played[0].Volume != SlapVolume {
		t.Errorf("Click() played %+v", pool.played[0])
	}
}

func TestPlayer_AllFailSwallowed(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	bad := &fakeStrategy{name: "pool", available: true, err: errors.New("autoplay rejected")}
	p := NewPlayer(c, PlayerOptions{Strategies: []Strategy{bad}})

	if p.Play(Request{Category: Slap}) {
		t.Error("Play() = true, want false when every path fails")
	}
}

func TestPlayer_MilestoneStaggered(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	pool := &fakeStrategy{name: "pool", available: true}
	p := NewPlayer(c, PlayerOptions{Strategies: []Strategy{pool}})

	p.Click()
	p.Milestone(250)

	c.Advance(99 * time.Millisecond)
	if len(pool.played) != 1 {
		t.Fatalf("played %d before stagger, want 1", len(pool.played))
	}
	c.Advance(1 * time.Millisecond)
	if len(pool.played) != 2 || pool.played[1].Category != Chum {
		t.Fatalf("played = %+v, want slap then chum", pool.played)
	}

	c.Advance(time.Second)
	if len(pool.played) != 2 {
		t.Errorf("bouta also fired on a 250 click: %+v", pool.played)
	}
}

func TestPlayer_NoMilestone(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	p := NewPlayer(c, PlayerOptions{})
	if _, ok := p.Milestone(7); ok {
		t.Error("Milestone(7) scheduled a sound")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestPlayer_BackgroundStartsOnceAfterUnlock(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	bg := &fakeUnit{name: "bg"}
	p := NewPlayer(c, PlayerOptions{Background: bg})

	if p.Unlocked() || p.BackgroundStarted() {
		t.Fatal("player should start locked and silent")
	}

	for i := 0; i < 5; i++ {
		p.Interact()
	}
	if !p.Unlocked() {
		t.Error("Unlocked() = false after interaction")
	}
	if bg.plays != 1 {
		t.Errorf("background played %d times, want 1", bg.plays)
	}
	if bg.volume != BackgroundVolume {
		t.Errorf("background volume = %v, want %v", bg.volume, BackgroundVolume)
	}
}

func TestPlayer_BackgroundRetriesUntilStarted(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	bg := &fakeUnit{name: "bg", err: errors.New("blocked")}
	p := NewPlayer(c, PlayerOptions{Background: bg})

	p.Interact()
	if p.BackgroundStarted() {
		t.Fatal("BackgroundStarted() = true after failed play")
	}
	bg.err = nil
	p.Interact()
	p.Interact()
	if !p.BackgroundStarted() || bg.plays != 1 {
		t.Errorf("started %v plays %d, want true and 1", p.BackgroundStarted(), bg.plays)
	}
}

func TestGate_UnlocksOnce(t *testing.T) {
	var g Gate
	if !g.Unlock() {
		t.Error("first Unlock() = false")
	}
	if g.Unlock() {
		t.Error("second Unlock() = true")
	}
	if !g.Unlocked() {
		t.Error("Unlocked() = false")
	}
}

func TestNewStrategies_EmitsEffects(t *testing.T) {
	bus := events.NewBus()
	strategies, mixer := NewStrategies(bus, 3, false)
	if len(strategies) != 2 || strategies[0].Name() != "buffer" || mixer == nil {
		t.Fatalf("unexpected strategies %v", strategies)
	}

	c := clock.NewFake(time.Unix(0, 0))
	p := NewPlayer(c, PlayerOptions{Strategies: strategies})
	p.Click()

	e := <-bus.Effects
	played, ok := e.Payload.(Played)
	if e.Kind != events.KindSound || !ok {
		t.Fatalf("effect = %+v", e)
	}
	if played.Via != "buffer" || played.Category != Slap {
		t.Errorf("played = %+v", played)
	}
}

func TestNewStrategies_ConstrainedUsesPools(t *testing.T) {
	bus := events.NewBus()
	strategies, mixer := NewStrategies(bus, 3, true)
	if len(strategies) != 1 || mixer != nil {
		t.Fatalf("constrained strategies = %v", strategies)
	}

	c := clock.NewFake(time.Unix(0, 0))
	p := NewPlayer(c, PlayerOptions{Strategies: strategies})
	for i := 0; i < 4; i++ {
		p.Click()
	}

	var slots []int
	for i := 0; i < 4; i++ {
		played := (<-bus.Effects).Payload.(Played)
		slots = append(slots, played.Slot)
	}
	want := []int{0, 1, 2, 0}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slots = %v, want %v", slots, want)
			break
		}
	}
}
