package server

import (
	"beatmeat/internal/audio"
	"beatmeat/internal/events"
	"beatmeat/internal/gamedata"
	"beatmeat/internal/particles"
	"beatmeat/internal/session"
	"beatmeat/internal/stats"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal prints effects and owns the window title. Writes are serialized
// because the loop and the presenter goroutine share it.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	title   string
	verbose bool
}

func NewTerminal(out io.Writer, title string, verbose bool) *Terminal {
	return &Terminal{out: out, title: title, verbose: verbose}
}

func (t *Terminal) Printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *Terminal) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}

// SetTitle rewrites the terminal window title with an OSC 0 sequence.
func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.title = title
	fmt.Fprintf(t.out, "\x1b]0;%s\x07", title)
}

// Present prints effects until sub closes or ctx ends.
func (t *Terminal) Present(ctx context.Context, sub <-chan events.Effect) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			if line := t.Format(ev); line != "" {
				t.Printf("%s\n", line)
			}
		}
	}
}

// Format renders one effect as a line, or "" for effects not shown.
func (t *Terminal) Format(ev events.Effect) string {
	switch p := ev.Payload.(type) {
	case particles.Burst:
		var b strings.Builder
		for _, pt := range p.Particles {
			b.WriteString(pt.Symbol)
		}
		return "👊 " + b.String()
	case stats.View:
		return formatStats(p)
	case gamedata.ChatUpdate:
		if p.Unread > 0 {
			return fmt.Sprintf("[chat] %s: %s (%d unread)", p.Message.Username, p.Message.Message, p.Unread)
		}
		return fmt.Sprintf("[chat] %s: %s", p.Message.Username, p.Message.Message)
	case session.State:
		return "[conn] " + p.String()
	case audio.Played:
		if !t.verbose {
			return ""
		}
		return fmt.Sprintf("[sound] %s %.1f via %s", p.Category, p.Volume, p.Via)
	}

	switch ev.Kind {
	case events.KindDisco:
		if ev.Payload == true {
			return "🪩 DISCO MODE 🪩"
		}
		return "disco over"
	case events.KindSmoke:
		if ev.Payload == true {
			return "🔥 your fist is smoking 🔥"
		}
	case events.KindEncouragement:
		if msg, _ := ev.Payload.(string); msg != "" {
			return ">>> " + msg
		}
	}
	return ""
}

func formatStats(v stats.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "you %d | global %d | online %d | rank %s", v.PersonalClicks, v.GlobalClicks, v.ConnectedUsers, v.UserRank)
	for i, e := range v.Leaderboard {
		if i == 5 {
			break
		}
		mark := " "
		if e.IsOnline {
			mark = "*"
		}
		fmt.Fprintf(&b, "\n  %d. %s%s %d", i+1, mark, e.Name, e.Clicks)
	}
	return b.String()
}

func formatSnapshot(s gamedata.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is %s (dials %d)\n", s.Name, s.State, s.Attempts)
	b.WriteString(formatStats(s.Stats))
	fmt.Fprintf(&b, "\ndisco %v | particles %d | chat open %v | unread %d | online-only %v",
		s.Disco, s.Particles, s.ChatOpen, s.Unread, s.OnlineOnly)
	return b.String()
}
