package audio

import "time"

type Category string

const (
	Slap       = Category("slap")
	Bouta      = Category("bouta")
	Chum       = Category("chum")
	Background = Category("background")
)

// Effects lists the categories that share round-robin pools.
var Effects = []Category{Slap, Bouta, Chum}

const (
	SlapVolume       = 0.3
	BoutaVolume      = 0.7
	ChumVolume       = 0.8
	BackgroundVolume = 0.1

	ChumEvery   = 250
	BoutaEvery  = 50
	ChumDelay   = 100 * time.Millisecond
	BoutaDelay  = 150 * time.Millisecond
	DefaultPool = 3
)

type Request struct {
	Category Category
	Volume   float64
}

// Milestone is a bonus sound played after a short stagger.
type Milestone struct {
	Request Request
	Delay   time.Duration
}

// MilestoneFor picks the bonus sound for a click count. Chum takes
// precedence, so a count divisible by 250 never also plays bouta.
func MilestoneFor(count uint64) (Milestone, bool) {
	switch {
	case count%ChumEvery == 0:
		return Milestone{Request: Request{Category: Chum, Volume: ChumVolume}, Delay: ChumDelay}, true
	case count%BoutaEvery == 0:
		return Milestone{Request: Request{Category: Bouta, Volume: BoutaVolume}, Delay: BoutaDelay}, true
	default:
		return Milestone{}, false
	}
}
