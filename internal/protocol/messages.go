package protocol

// Client -> Server
//   join:    { name }
//   click:   {}
//   message: { message }
//
// Server -> Client
//   initial_stats:  personal_clicks, global_clicks, connected_users, leaderboard, user_rank?, recent_messages?
//   stats_update:   global_clicks, connected_users, leaderboard
//   click_response: personal_clicks, should_smoke, user_rank?, recent_clicks?
//   new_message:    username, message, created_at

const (
	TypeJoin    = "join"
	TypeClick   = "click"
	TypeMessage = "message"

	TypeInitialStats  = "initial_stats"
	TypeStatsUpdate   = "stats_update"
	TypeClickResponse = "click_response"
	TypeNewMessage    = "new_message"
)

// MaxMessageLen is the longest chat message, in characters, the server keeps.
const MaxMessageLen = 500

type Join struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type Click struct {
	Type string `json:"type"`
}

type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type LeaderboardEntry struct {
	Name     string `json:"name"`
	Clicks   uint64 `json:"clicks"`
	IsOnline bool   `json:"is_online"`
}

type ChatMessage struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type InitialStats struct {
	PersonalClicks uint64             `json:"personal_clicks"`
	GlobalClicks   uint64             `json:"global_clicks"`
	ConnectedUsers uint64             `json:"connected_users"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
	UserRank       *uint64            `json:"user_rank,omitempty"`
	RecentMessages []ChatMessage      `json:"recent_messages,omitempty"`
}

type StatsUpdate struct {
	GlobalClicks   uint64             `json:"global_clicks"`
	ConnectedUsers uint64             `json:"connected_users"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
}

type ClickResponse struct {
	PersonalClicks uint64  `json:"personal_clicks"`
	ShouldSmoke    bool    `json:"should_smoke"`
	UserRank       *uint64 `json:"user_rank,omitempty"`
	RecentClicks   *uint64 `json:"recent_clicks,omitempty"`
}

type NewMessage ChatMessage
