package audio

// Gate records whether the user has interacted yet. It opens once and
// never closes.
type Gate struct {
	unlocked bool
}

func (g *Gate) Unlocked() bool { return g.unlocked }

// Unlock reports true only on the call that opened the gate.
func (g *Gate) Unlock() bool {
	if g.unlocked {
		return false
	}
	g.unlocked = true
	return true
}
