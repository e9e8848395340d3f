package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyMessage = errors.New("protocol: empty chat message")

func EncodeJoin(name string) ([]byte, error) {
	return json.Marshal(Join{Type: TypeJoin, Name: name})
}

func EncodeClick() ([]byte, error) {
	return json.Marshal(Click{Type: TypeClick})
}

// EncodeMessage trims text and cuts it to MaxMessageLen characters.
func EncodeMessage(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if r := []rune(text); len(r) > MaxMessageLen {
		text = strings.TrimSpace(string(r[:MaxMessageLen]))
	}
	return json.Marshal(Message{Type: TypeMessage, Message: text})
}

// Handler receives decoded server pushes. Implementations apply the merge
// and must not block or perform network I/O.
type Handler interface {
	InitialStats(InitialStats)
	StatsUpdate(StatsUpdate)
	ClickResponse(ClickResponse)
	NewMessage(NewMessage)
}

type envelope struct {
	Type string `json:"type"`
}

// Route decodes one frame and dispatches it. Unknown types are ignored and
// reported with known=false; malformed frames return an error and reach no
// handler.
func Route(data []byte, h Handler) (msgType string, known bool, err error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", false, fmt.Errorf("decoding envelope: %w", err)
	}

	switch env.Type {
	case TypeInitialStats:
		var m InitialStats
		if err := json.Unmarshal(data, &m); err != nil {
			return env.Type, true, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		h.InitialStats(m)
	case TypeStatsUpdate:
		var m StatsUpdate
		if err := json.Unmarshal(data, &m); err != nil {
			return env.Type, true, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		h.StatsUpdate(m)
	case TypeClickResponse:
		var m ClickResponse
		if err := json.Unmarshal(data, &m); err != nil {
			return env.Type, true, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		h.ClickResponse(m)
	case TypeNewMessage:
		var m NewMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return env.Type, true, fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		h.NewMessage(m)
	default:
		return env.Type, false, nil
	}
	return env.Type, true, nil
}
