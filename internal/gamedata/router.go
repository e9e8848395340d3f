package gamedata

import (
	"beatmeat/internal/events"
	"beatmeat/internal/protocol"
	"beatmeat/internal/session"
	"log"
	"time"
)

// ChatUpdate is the chat effect payload.
type ChatUpdate struct {
	Message protocol.ChatMessage
	Unread  int
}

func (g *Game) InitialStats(m protocol.InitialStats) {
	g.Stats.ApplyInitial(m)
	if m.RecentMessages != nil {
		g.Chat.Seed(m.RecentMessages)
	}
	g.emitStats()
}

func (g *Game) StatsUpdate(m protocol.StatsUpdate) {
	g.Stats.ApplyUpdate(m)
	g.emitStats()
}

func (g *Game) ClickResponse(m protocol.ClickResponse) {
	g.Stats.ApplyClick(m)
	g.Audio.Milestone(m.PersonalClicks)
	if m.PersonalClicks > 0 && m.PersonalClicks%EncourageEvery == 0 {
		g.showEncouragement()
	}
	if m.ShouldSmoke {
		if g.cfg.Verbose && m.RecentClicks != nil {
			log.Printf("[Game] smoking, recent clicks %d\n", *m.RecentClicks)
		}
		g.smoke()
	}
	g.emitStats()
}

func (g *Game) NewMessage(m protocol.NewMessage) {
	msg := protocol.ChatMessage(m)
	g.Chat.Append(msg)
	g.unreadChanged()
	g.bus.Emit(events.KindChat, ChatUpdate{Message: msg, Unread: g.Chat.Unread()})
}

func (g *Game) Frame(data []byte) {
	msgType, known, err := protocol.Route(data, g)
	if err != nil {
		log.Printf("[Game] dropping frame: %v\n", err)
		if g.metrics != nil {
			g.metrics.MalformedFrame.Inc()
		}
		return
	}
	if !known {
		if g.cfg.Verbose {
			log.Printf("[Game] ignoring message type %q\n", msgType)
		}
		msgType = "unknown"
	}
	if g.metrics != nil {
		g.metrics.Frames.WithLabelValues(msgType).Inc()
	}
}

func (g *Game) StateChanged(from, to session.State) {
	log.Printf("[Game] connection %s -> %s\n", from, to)
	if g.metrics != nil {
		g.metrics.StateChanges.WithLabelValues(to.String()).Inc()
	}
	g.bus.Emit(events.KindConnection, to)
}

func (g *Game) ReconnectScheduled(attempt uint64, delay time.Duration) {
	log.Printf("[Game] reconnecting in %v (attempt %d)\n", delay, attempt)
	if g.metrics != nil {
		g.metrics.Reconnects.Inc()
	}
}
