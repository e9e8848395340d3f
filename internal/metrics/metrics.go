package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the client-side counters exposed on the diagnostics server.
type Metrics struct {
	Reconnects     prometheus.Counter
	StateChanges   *prometheus.CounterVec
	Frames         *prometheus.CounterVec
	MalformedFrame prometheus.Counter
	Clicks         prometheus.Counter
	DiscoActive    prometheus.Gauge
	Particles      prometheus.Gauge
	Sounds         *prometheus.CounterVec
	Unread         prometheus.Gauge
	EffectsDropped prometheus.CounterFunc
}

// New registers every metric on reg. dropped feeds the effect drop counter
// and may be nil.
func New(reg prometheus.Registerer, dropped func() uint64) *Metrics {
	if dropped == nil {
		dropped = func() uint64 { return 0 }
	}
	m := &Metrics{
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beatmeat",
			Name:      "reconnects_scheduled_total",
			Help:      "Reconnect attempts scheduled after a socket closed.",
		}),
		StateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beatmeat",
			Name:      "session_state_changes_total",
			Help:      "Session state transitions by target state.",
		}, []string{"state"}),
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beatmeat",
			Name:      "frames_received_total",
			Help:      "Inbound frames by message type.",
		}, []string{"type"}),
		MalformedFrame: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beatmeat",
			Name:      "frames_malformed_total",
			Help:      "Inbound frames that failed to decode.",
		}),
		Clicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beatmeat",
			Name:      "clicks_total",
			Help:      "Local clicks.",
		}),
		DiscoActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "beatmeat",
			Name:      "disco_active",
			Help:      "1 while disco mode is on.",
		}),
		Particles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "beatmeat",
			Name:      "particles_live",
			Help:      "Particles currently on screen.",
		}),
		Sounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beatmeat",
			Name:      "sounds_played_total",
			Help:      "Sounds played by category and path.",
		}, []string{"category", "via"}),
		Unread: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "beatmeat",
			Name:      "chat_unread",
			Help:      "Unread chat messages.",
		}),
		EffectsDropped: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "beatmeat",
			Name:      "effects_dropped_total",
			Help:      "Effects discarded because presentation fell behind.",
		}, func() float64 { return float64(dropped()) }),
	}
	reg.MustRegister(
		m.Reconnects,
		m.StateChanges,
		m.Frames,
		m.MalformedFrame,
		m.Clicks,
		m.DiscoActive,
		m.Particles,
		m.Sounds,
		m.Unread,
		m.EffectsDropped,
	)
	return m
}

func (m *Metrics) SetDisco(on bool) {
	if on {
		m.DiscoActive.Set(1)
		return
	}
	m.DiscoActive.Set(0)
}
