package chat

import (
	"beatmeat/internal/protocol"
	"fmt"
	"log"
)

const DefaultHistory = 200

// TitleSink is the window title the unread count is written into.
type TitleSink interface {
	Title() string
	SetTitle(title string)
}

// MemoryTitle is a TitleSink that only remembers the value.
type MemoryTitle struct {
	Value string
}

func (m *MemoryTitle) Title() string     { return m.Value }
func (m *MemoryTitle) SetTitle(t string) { m.Value = t }

// Coordinator appends chat messages and tracks unread ones while the panel
// is closed. Not safe for concurrent use.
type Coordinator struct {
	history *Ring[protocol.ChatMessage]
	title   TitleSink
	open    bool
	unread  int
	base    string
}

func NewCoordinator(history int, title TitleSink) *Coordinator {
	if history <= 0 {
		history = DefaultHistory
	}
	return &Coordinator{
		history: NewRing[protocol.ChatMessage](history),
		title:   title,
	}
}

// Append records a message. It reports whether the unread count changed.
func (c *Coordinator) Append(m protocol.ChatMessage) bool {
	c.history.Push(m)
	if c.open {
		return false
	}
	if c.unread == 0 {
		c.base = c.title.Title()
	}
	c.unread++
	c.title.SetTitle(FormatTitle(c.unread, c.base))
	return true
}

// Seed replaces the history without counting anything as unread.
func (c *Coordinator) Seed(msgs []protocol.ChatMessage) {
	c.history.Reset()
	for _, m := range msgs {
		c.history.Push(m)
	}
	log.Printf("[Chat] seeded %d recent messages\n", c.history.Len())
}

// Open resets the unread count and restores the title. Repeated opens are
// no-ops.
func (c *Coordinator) Open() {
	if c.open {
		return
	}
	c.open = true
	if c.unread > 0 {
		c.title.SetTitle(c.base)
	}
	c.unread = 0
}

func (c *Coordinator) Close() {
	c.open = false
}

func (c *Coordinator) IsOpen() bool { return c.open }

func (c *Coordinator) Unread() int { return c.unread }

func (c *Coordinator) Messages() []protocol.ChatMessage { return c.history.Slice() }

func FormatTitle(unread int, base string) string {
	return fmt.Sprintf("(%d) %s", unread, base)
}
