package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type recorder struct {
	initial []InitialStats
	updates []StatsUpdate
	clicks  []ClickResponse
	msgs    []NewMessage
}

func (r *recorder) InitialStats(m InitialStats)   { r.initial = append(r.initial, m) }
func (r *recorder) StatsUpdate(m StatsUpdate)     { r.updates = append(r.updates, m) }
func (r *recorder) ClickResponse(m ClickResponse) { r.clicks = append(r.clicks, m) }
func (r *recorder) NewMessage(m NewMessage)       { r.msgs = append(r.msgs, m) }

func (r *recorder) total() int {
	return len(r.initial) + len(r.updates) + len(r.clicks) + len(r.msgs)
}

func TestEncodeJoin(t *testing.T) {
	data, err := EncodeJoin("Ada")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"join","name":"Ada"}` {
		t.Errorf("EncodeJoin = %s", data)
	}
}

func TestEncodeClick(t *testing.T) {
	data, err := EncodeClick()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"click"}` {
		t.Errorf("EncodeClick = %s", data)
	}
}

func TestEncodeMessage(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "trimmed", in: "  hello  ", want: "hello"},
		{name: "empty", in: "", wantErr: ErrEmptyMessage},
		{name: "whitespace only", in: " \t\n ", wantErr: ErrEmptyMessage},
		{name: "truncated", in: strings.Repeat("é", 600), want: strings.Repeat("é", MaxMessageLen)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := EncodeMessage(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			var m Message
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatal(err)
			}
			if m.Type != TypeMessage {
				t.Errorf("Type = %q, want %q", m.Type, TypeMessage)
			}
			if m.Message != tc.want {
				t.Errorf("Message has %d runes, want %d", len([]rune(m.Message)), len([]rune(tc.want)))
			}
		})
	}
}

func TestRoute_InitialStats(t *testing.T) {
	r := &recorder{}
	frame := `{"type":"initial_stats","personal_clicks":7,"global_clicks":1000,"connected_users":3,
		"leaderboard":[{"name":"Bob","clicks":500,"is_online":true}],
		"recent_messages":[{"username":"Bob","message":"hi","created_at":"just now"}]}`

	typ, known, err := Route([]byte(frame), r)
	if err != nil {
		t.Fatal(err)
	}
	if typ != TypeInitialStats || !known {
		t.Errorf("Route = (%q, %v), want (%q, true)", typ, known, TypeInitialStats)
	}
	if len(r.initial) != 1 {
		t.Fatalf("InitialStats called %d times, want 1", len(r.initial))
	}
	m := r.initial[0]
	if m.PersonalClicks != 7 || m.GlobalClicks != 1000 || m.ConnectedUsers != 3 {
		t.Errorf("unexpected counters: %+v", m)
	}
	if len(m.Leaderboard) != 1 || m.Leaderboard[0] != (LeaderboardEntry{Name: "Bob", Clicks: 500, IsOnline: true}) {
		t.Errorf("Leaderboard = %+v", m.Leaderboard)
	}
	if m.UserRank != nil {
		t.Errorf("UserRank = %v, want nil", *m.UserRank)
	}
	if len(m.RecentMessages) != 1 || m.RecentMessages[0].Message != "hi" {
		t.Errorf("RecentMessages = %+v", m.RecentMessages)
	}
}

func TestRoute_EachType(t *testing.T) {
	r := &recorder{}
	frames := []string{
		`{"type":"stats_update","global_clicks":5,"connected_users":2,"leaderboard":[]}`,
		`{"type":"click_response","personal_clicks":50,"should_smoke":true,"user_rank":4,"recent_clicks":12}`,
		`{"type":"new_message","username":"Eve","message":"yo","created_at":"just now"}`,
	}
	for _, f := range frames {
		if _, known, err := Route([]byte(f), r); err != nil || !known {
			t.Fatalf("Route(%s) = known %v, err %v", f, known, err)
		}
	}

	if len(r.updates) != 1 || r.updates[0].GlobalClicks != 5 {
		t.Errorf("updates = %+v", r.updates)
	}
	if len(r.clicks) != 1 {
		t.Fatalf("clicks = %+v", r.clicks)
	}
	c := r.clicks[0]
	if c.PersonalClicks != 50 || !c.ShouldSmoke || c.UserRank == nil || *c.UserRank != 4 || c.RecentClicks == nil || *c.RecentClicks != 12 {
		t.Errorf("click response = %+v", c)
	}
	if len(r.msgs) != 1 || r.msgs[0].Username != "Eve" {
		t.Errorf("msgs = %+v", r.msgs)
	}
}

func TestRoute_UnknownTypeIgnored(t *testing.T) {
	r := &recorder{}
	typ, known, err := Route([]byte(`{"type":"confetti","amount":3}`), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if known {
		t.Error("known should be false")
	}
	if typ != "confetti" {
		t.Errorf("type = %q, want %q", typ, "confetti")
	}
	if r.total() != 0 {
		t.Errorf("handler called %d times, want 0", r.total())
	}
}

func TestRoute_Malformed(t *testing.T) {
	r := &recorder{}
	for _, f := range []string{`not json`, `{"type":"stats_update","global_clicks":"many"}`} {
		if _, _, err := Route([]byte(f), r); err == nil {
			t.Errorf("Route(%s) should fail", f)
		}
	}
	if r.total() != 0 {
		t.Errorf("handler called %d times, want 0", r.total())
	}
}
