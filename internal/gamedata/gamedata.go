package gamedata

import (
	"beatmeat/internal/audio"
	"beatmeat/internal/chat"
	"beatmeat/internal/clock"
	"beatmeat/internal/db"
	"beatmeat/internal/disco"
	"beatmeat/internal/events"
	"beatmeat/internal/metrics"
	"beatmeat/internal/particles"
	"beatmeat/internal/protocol"
	"beatmeat/internal/session"
	"beatmeat/internal/stats"
	"beatmeat/internal/utility"
	"beatmeat/internal/wshub"
	"log"
	"math/rand"
	"time"
)

const (
	PunchDuration      = 250 * time.Millisecond
	SmokeDuration      = 3 * time.Second
	EncouragementShown = 3 * time.Second
	EncourageEvery     = 50
)

type Config struct {
	WSBase         string
	ReconnectDelay time.Duration
	Constrained    bool
	ChatHistory    int
	AudioPoolSize  int
	ParticleTTL    time.Duration
	Title          string
	Verbose        bool
}

func DefaultConfig() Config {
	return Config{
		WSBase:         "ws://localhost:8000",
		ReconnectDelay: session.DefaultReconnectDelay,
		ChatHistory:    chat.DefaultHistory,
		AudioPoolSize:  audio.DefaultPool,
		ParticleTTL:    particles.MaxTTL,
		Title:          "Beat Meat!",
	}
}

// Deps are the collaborators a Game runs against. Clock callbacks and
// Post must deliver onto the same single thread that calls Game methods.
type Deps struct {
	Clock   clock.Clock
	Post    func(func())
	Spawn   func(func())
	Dialer  wshub.Dialer
	Bus     *events.Bus
	Title   chat.TitleSink
	Metrics *metrics.Metrics
	Journal chan<- db.ClickEvent
	Rand    *rand.Rand
}

// Game is the client session context. It owns every component and is the
// only place they are wired together. Not safe for concurrent use; all
// methods run on the loop.
type Game struct {
	cfg     Config
	clock   clock.Clock
	bus     *events.Bus
	rng     *rand.Rand
	metrics *metrics.Metrics
	journal chan<- db.ClickEvent

	Session   *session.Manager
	Stats     *stats.Store
	Chat      *chat.Coordinator
	Disco     *disco.Detector
	Particles *particles.Store
	Audio     *audio.Player

	installID     string
	clicks        uint64
	punching      bool
	smoking       bool
	encouragement string
}

func NewGame(cfg Config, deps Deps) *Game {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	title := deps.Title
	if title == nil {
		title = &chat.MemoryTitle{Value: cfg.Title}
	}
	g := &Game{
		cfg:     cfg,
		clock:   deps.Clock,
		bus:     deps.Bus,
		rng:     rng,
		metrics: deps.Metrics,
		journal: deps.Journal,
		Stats:   stats.NewStore(),
	}

	g.Session = session.New(session.Options{
		WSBase:         cfg.WSBase,
		ReconnectDelay: cfg.ReconnectDelay,
		Dialer:         deps.Dialer,
		Clock:          deps.Clock,
		Post:           deps.Post,
		Spawn:          deps.Spawn,
		Observer:       g,
	})
	g.Chat = chat.NewCoordinator(cfg.ChatHistory, &titleEffect{inner: title, bus: deps.Bus})
	g.Disco = disco.New(deps.Clock, g.discoChanged)
	g.Particles = particles.NewStore(deps.Clock, particles.Options{
		Constrained: cfg.Constrained,
		TTL:         cfg.ParticleTTL,
		Rand:        rng,
		OnExpire:    g.burstExpired,
	})

	strategies, _ := audio.NewStrategies(deps.Bus, cfg.AudioPoolSize, cfg.Constrained)
	g.Audio = audio.NewPlayer(deps.Clock, audio.PlayerOptions{
		Strategies: strategies,
		Background: audio.NewEffectUnit(deps.Bus, audio.Background, 0, true),
		OnPlay:     g.soundPlayed,
	})
	return g
}

// Start joins as name and keeps the session connected until Close.
func (g *Game) Start(name, installID string) error {
	g.installID = installID
	return g.Session.Connect(session.Identity{DisplayName: name})
}

func (g *Game) Close() {
	g.Session.Close()
}

// Click gives immediate local feedback and sends the click intent. Local
// effects run even while disconnected.
func (g *Game) Click() error {
	g.Audio.Interact()
	g.clicks++
	if g.metrics != nil {
		g.metrics.Clicks.Inc()
	}

	g.Disco.Click()
	burst := g.Particles.Spawn()
	g.bus.Emit(events.KindBurst, burst)
	g.particlesChanged()
	g.Audio.Click()
	g.punch()
	g.record()

	frame, err := protocol.EncodeClick()
	if err != nil {
		return err
	}
	return g.Session.Send(frame)
}

func (g *Game) SendChat(text string) error {
	g.Audio.Interact()
	frame, err := protocol.EncodeMessage(text)
	if err != nil {
		return err
	}
	return g.Session.Send(frame)
}

func (g *Game) OpenChat() {
	g.Chat.Open()
	g.unreadChanged()
}

func (g *Game) CloseChat() {
	g.Chat.Close()
}

// ToggleOnlineOnly flips the leaderboard filter and reports the new value.
func (g *Game) ToggleOnlineOnly() bool {
	on := !g.Stats.OnlineOnly()
	g.Stats.SetOnlineOnly(on)
	g.emitStats()
	return on
}

func (g *Game) punch() {
	if g.punching {
		return
	}
	g.punching = true
	g.bus.Emit(events.KindPunch, true)
	g.clock.AfterFunc(PunchDuration, func() {
		g.punching = false
		g.bus.Emit(events.KindPunch, false)
	})
}

func (g *Game) record() {
	if g.journal == nil || g.installID == "" {
		return
	}
	ev := db.ClickEvent{
		InstallID:  g.installID,
		SessionKey: session.Key(g.Session.Identity().DisplayName),
		Seq:        g.clicks,
		Disco:      g.Disco.Active(),
		ClickedAt:  g.clock.Now(),
	}
	select {
	case g.journal <- ev:
	default:
		log.Printf("[Game] click journal full, dropping click %d\n", g.clicks)
	}
}

func (g *Game) discoChanged(active bool) {
	if g.metrics != nil {
		g.metrics.SetDisco(active)
	}
	if g.cfg.Verbose {
		log.Printf("[Game] disco %v\n", active)
	}
	g.bus.Emit(events.KindDisco, active)
}

func (g *Game) burstExpired(ids []uint64) {
	g.bus.Emit(events.KindBurstExpired, ids)
	g.particlesChanged()
}

func (g *Game) particlesChanged() {
	if g.metrics != nil {
		g.metrics.Particles.Set(float64(g.Particles.Len()))
	}
}

func (g *Game) soundPlayed(req audio.Request, via string) {
	if g.metrics != nil {
		g.metrics.Sounds.WithLabelValues(string(req.Category), via).Inc()
	}
}

func (g *Game) unreadChanged() {
	if g.metrics != nil {
		g.metrics.Unread.Set(float64(g.Chat.Unread()))
	}
}

func (g *Game) emitStats() {
	v := g.Stats.Snapshot()
	v.Leaderboard = g.Stats.Leaderboard()
	g.bus.Emit(events.KindStats, v)
}

// titleEffect forwards title changes and reports them as effects.
type titleEffect struct {
	inner chat.TitleSink
	bus   *events.Bus
}

func (t *titleEffect) Title() string { return t.inner.Title() }

func (t *titleEffect) SetTitle(title string) {
	t.inner.SetTitle(title)
	t.bus.Emit(events.KindTitle, title)
}

func (g *Game) showEncouragement() {
	g.encouragement = utility.RandomEncouragement(g.rng)
	g.bus.Emit(events.KindEncouragement, g.encouragement)
	// Not cancelled on re-show: an earlier hide may clear a newer banner early.
	g.clock.AfterFunc(EncouragementShown, func() {
		g.encouragement = ""
		g.bus.Emit(events.KindEncouragement, "")
	})
}

func (g *Game) smoke() {
	g.smoking = true
	g.bus.Emit(events.KindSmoke, true)
	// Uncancelled like the banner; only the disco timer is re-armed.
	g.clock.AfterFunc(SmokeDuration, func() {
		g.smoking = false
		g.bus.Emit(events.KindSmoke, false)
	})
}
