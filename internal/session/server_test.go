package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/coder/websocket"
)

type joinRecord struct {
	path  string
	frame string
}

type joinServer struct {
	*httptest.Server
	base  string
	joins chan joinRecord
}

// newJoinServer records each join frame. The first connection is closed
// right after its join; later ones stay open until the client leaves.
func newJoinServer(t *testing.T) *joinServer {
	t.Helper()
	s := &joinServer{joins: make(chan joinRecord, 8)}
	var conns atomic.Int32
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		_, data, err := conn.Read(r.Context())
		if err != nil {
			return
		}
		s.joins <- joinRecord{path: r.URL.Path, frame: string(data)}

		if conns.Add(1) == 1 {
			conn.Close(websocket.StatusGoingAway, "restarting")
			return
		}
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}))
	s.base = "ws" + strings.TrimPrefix(s.Server.URL, "http")
	return s
}
