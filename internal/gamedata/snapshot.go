package gamedata

import (
	"beatmeat/internal/protocol"
	"beatmeat/internal/stats"
)

// Snapshot is a copy of everything presentation reads.
type Snapshot struct {
	Name          string                 `json:"name"`
	State         string                 `json:"state"`
	Attempts      uint64                 `json:"dial_attempts"`
	Stats         stats.View             `json:"stats"`
	Rank          string                 `json:"rank"`
	OnlineOnly    bool                   `json:"online_only"`
	Disco         bool                   `json:"disco"`
	Particles     int                    `json:"particles"`
	Punching      bool                   `json:"punching"`
	Smoking       bool                   `json:"smoking"`
	Encouragement string                 `json:"encouragement,omitempty"`
	ChatOpen      bool                   `json:"chat_open"`
	Unread        int                    `json:"unread"`
	Messages      []protocol.ChatMessage `json:"messages"`
	AudioUnlocked bool                   `json:"audio_unlocked"`
	LocalClicks   uint64                 `json:"local_clicks"`
}

func (g *Game) Snapshot() Snapshot {
	v := g.Stats.Snapshot()
	v.Leaderboard = g.Stats.Leaderboard()
	return Snapshot{
		Name:          g.Session.Identity().DisplayName,
		State:         g.Session.State().String(),
		Attempts:      g.Session.Attempts(),
		Stats:         v,
		Rank:          v.UserRank.String(),
		OnlineOnly:    g.Stats.OnlineOnly(),
		Disco:         g.Disco.Active(),
		Particles:     g.Particles.Len(),
		Punching:      g.punching,
		Smoking:       g.smoking,
		Encouragement: g.encouragement,
		ChatOpen:      g.Chat.IsOpen(),
		Unread:        g.Chat.Unread(),
		Messages:      g.Chat.Messages(),
		AudioUnlocked: g.Audio.Unlocked(),
		LocalClicks:   g.clicks,
	}
}
