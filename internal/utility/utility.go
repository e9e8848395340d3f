package utility

import "math/rand"

var symbols = []string{
	"🐒", "🐵", "🙈", "🙉", "🙊",
	"🎆", "🎇", "✨", "💥", "🌟",
	"🔥", "💨", "💢", "💫", "⭐",
	"🐐", "🐑", "🦌", "🐄", "🐮",
	"🤯", "😵", "🥴", "😵‍💫", "🤪",
	"💀", "👻", "🎃", "👽", "🤖",
	"🍖", "🥩", "🍗", "🌭", "🥓",
	"👊", "✊", "🤜", "🤛", "💪",
	"🌪️", "⚡", "🌈", "☄️", "🔮",
	"🎪", "🎭", "🎨", "🎯", "🎲",
}

var encouragements = []string{
	"BEAST MODE ACTIVATED! 🔥",
	"YOU'RE ABSOLUTELY CRUSHING IT! 💪",
	"MEAT DESTROYER SUPREME! 🥩",
	"LEGENDARY PUNCHING POWER! ⚡",
	"UNSTOPPABLE FORCE OF NATURE! 🌪️",
	"FIST OF FURY UNLEASHED! 👊",
	"MAXIMUM CARNAGE ACHIEVED! 💥",
	"EPIC MEAT BEATING SKILLS! 🏆",
	"CHAMPION OF DESTRUCTION! 👑",
	"ULTIMATE PUNCHING MACHINE! 🤖",
}

// Symbols returns a copy of the particle symbol set.
func Symbols() []string {
	return append([]string(nil), symbols...)
}

func Encouragements() []string {
	return append([]string(nil), encouragements...)
}

func RandomSymbol(r *rand.Rand) string {
	return symbols[intn(r, len(symbols))]
}

func RandomEncouragement(r *rand.Rand) string {
	return encouragements[intn(r, len(encouragements))]
}

func intn(r *rand.Rand, n int) int {
	if r == nil {
		return rand.Intn(n)
	}
	return r.Intn(n)
}
