package server

import (
	"beatmeat/internal/events"
	"beatmeat/internal/gamedata"
	"beatmeat/internal/protocol"
	"beatmeat/internal/session"
	"context"
	"errors"
	"log"
	"strings"
)

type CmdKind int

const (
	CmdUnknown CmdKind = iota
	CmdClick
	CmdChat
	CmdOpenChat
	CmdCloseChat
	CmdOnlineOnly
	CmdState
	CmdQuit
)

type Command struct {
	Kind CmdKind
	Text string
}

func ParseCommand(line string) Command {
	trimmed := strings.TrimSpace(line)
	switch trimmed {
	case "", "c":
		return Command{Kind: CmdClick}
	case "o":
		return Command{Kind: CmdOpenChat}
	case "x":
		return Command{Kind: CmdCloseChat}
	case "f":
		return Command{Kind: CmdOnlineOnly}
	case "s":
		return Command{Kind: CmdState}
	case "q":
		return Command{Kind: CmdQuit}
	}
	if trimmed == "m" || strings.HasPrefix(trimmed, "m ") {
		return Command{Kind: CmdChat, Text: strings.TrimPrefix(trimmed, "m")}
	}
	return Command{Kind: CmdUnknown, Text: trimmed}
}

// Execute runs cmd on the loop. Only loop failures are returned; game
// errors are reported to the user.
func Execute(ctx context.Context, loop *events.Loop, game *gamedata.Game, term *Terminal, cmd Command) error {
	var err error
	var snap gamedata.Snapshot
	var online bool

	doErr := loop.Do(ctx, func() {
		switch cmd.Kind {
		case CmdClick:
			err = game.Click()
		case CmdChat:
			err = game.SendChat(cmd.Text)
		case CmdOpenChat:
			game.OpenChat()
			snap = game.Snapshot()
		case CmdCloseChat:
			game.CloseChat()
		case CmdOnlineOnly:
			online = game.ToggleOnlineOnly()
		case CmdState:
			snap = game.Snapshot()
		}
	})
	if doErr != nil {
		return doErr
	}

	switch cmd.Kind {
	case CmdUnknown:
		term.Printf("unknown command %q\n", cmd.Text)
	case CmdOpenChat:
		for _, m := range snap.Messages {
			term.Printf("[chat] %s: %s\n", m.Username, m.Message)
		}
	case CmdOnlineOnly:
		term.Printf("online-only leaderboard: %v\n", online)
	case CmdState:
		term.Printf("%s\n", formatSnapshot(snap))
	}

	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotConnected):
		term.Printf("not connected, waiting to reconnect\n")
	case errors.Is(err, protocol.ErrEmptyMessage):
		term.Printf("message is empty\n")
	default:
		log.Printf("[Terminal] command failed: %v\n", err)
	}
	return nil
}
