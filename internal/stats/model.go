package stats

import (
	"beatmeat/internal/protocol"
	"strconv"
)

// RankPlaceholder is shown until the server reports a rank.
const RankPlaceholder = "—"

type Entry struct {
	Name     string `json:"name"`
	Clicks   uint64 `json:"clicks"`
	IsOnline bool   `json:"is_online"`
}

type Rank struct {
	Value uint64
	Known bool
}

func (r Rank) String() string {
	if !r.Known {
		return RankPlaceholder
	}
	return "#" + strconv.FormatUint(r.Value, 10)
}

type View struct {
	PersonalClicks uint64  `json:"personal_clicks"`
	GlobalClicks   uint64  `json:"global_clicks"`
	ConnectedUsers uint64  `json:"connected_users"`
	Leaderboard    []Entry `json:"leaderboard"`
	UserRank       Rank    `json:"-"`
	RecentClicks   *uint64 `json:"recent_clicks,omitempty"`
}

func entriesFrom(in []protocol.LeaderboardEntry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = Entry{Name: e.Name, Clicks: e.Clicks, IsOnline: e.IsOnline}
	}
	return out
}
