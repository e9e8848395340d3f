package stats

import "beatmeat/internal/protocol"

// Store reconciles server pushes into the local view. Fields are
// last-write-wins and the leaderboard is replaced wholesale, never diffed
// or resorted. Not safe for concurrent use.
type Store struct {
	view       View
	onlineOnly bool
}

func NewStore() *Store {
	return &Store{view: View{Leaderboard: []Entry{}}}
}

func (s *Store) ApplyInitial(m protocol.InitialStats) {
	s.view.PersonalClicks = m.PersonalClicks
	s.view.GlobalClicks = m.GlobalClicks
	s.view.ConnectedUsers = m.ConnectedUsers
	s.view.Leaderboard = entriesFrom(m.Leaderboard)
	if m.UserRank != nil {
		s.view.UserRank = Rank{Value: *m.UserRank, Known: true}
	}
}

// ApplyUpdate leaves personal clicks and rank alone.
func (s *Store) ApplyUpdate(m protocol.StatsUpdate) {
	s.view.GlobalClicks = m.GlobalClicks
	s.view.ConnectedUsers = m.ConnectedUsers
	s.view.Leaderboard = entriesFrom(m.Leaderboard)
}

func (s *Store) ApplyClick(m protocol.ClickResponse) {
	s.view.PersonalClicks = m.PersonalClicks
	if m.UserRank != nil {
		s.view.UserRank = Rank{Value: *m.UserRank, Known: true}
	}
	if m.RecentClicks != nil {
		v := *m.RecentClicks
		s.view.RecentClicks = &v
	}
}

func (s *Store) SetOnlineOnly(on bool) { s.onlineOnly = on }

func (s *Store) OnlineOnly() bool { return s.onlineOnly }

// Leaderboard returns the entries to display, filtered to online players
// when the online-only view is on. The stored leaderboard is untouched.
func (s *Store) Leaderboard() []Entry {
	if !s.onlineOnly {
		return copyEntries(s.view.Leaderboard)
	}
	filtered := make([]Entry, 0, len(s.view.Leaderboard))
	for _, e := range s.view.Leaderboard {
		if e.IsOnline {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func (s *Store) Rank() Rank { return s.view.UserRank }

func (s *Store) PersonalClicks() uint64 { return s.view.PersonalClicks }

// Snapshot returns a copy safe to hand outside the loop.
func (s *Store) Snapshot() View {
	v := s.view
	v.Leaderboard = copyEntries(s.view.Leaderboard)
	if s.view.RecentClicks != nil {
		rc := *s.view.RecentClicks
		v.RecentClicks = &rc
	}
	return v
}

// copyEntries never returns nil, so an empty board encodes as [].
func copyEntries(src []Entry) []Entry {
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}
