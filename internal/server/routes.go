package server

import (
	"beatmeat/internal/broadcast"
	"beatmeat/internal/clock"
	"beatmeat/internal/config"
	"beatmeat/internal/db"
	"beatmeat/internal/events"
	"beatmeat/internal/gamedata"
	"beatmeat/internal/identity"
	"beatmeat/internal/metrics"
	"beatmeat/internal/wshub"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run plays one session in the terminal until the user quits or ctx ends.
func Run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var database *db.DB
	var store identity.Store = identity.NewFileStore(cfg.IdentityPath)
	var clickBuffer chan<- db.ClickEvent

	// Optional database connection
	if cfg.DatabaseURL != "" {
		d, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := d.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			database = d
			buffer, stopJournal := startClickJournal(database, 1000)
			// The journal drains before the connection goes away.
			defer func() {
				stopJournal()
				database.Close()
			}()
			store = &identity.SQLStore{DB: database}
			clickBuffer = buffer
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, keeping identity in " + cfg.IdentityPath)
	}

	term := NewTerminal(out, cfg.Title, cfg.Verbose)
	lines := readLines(ctx, in)

	rec, err := identity.Resolve(ctx, store, cfg.Name, time.Now())
	if errors.Is(err, identity.ErrNotFound) {
		rec, err = promptIdentity(ctx, store, term, lines)
	}
	if err != nil {
		return fmt.Errorf("resolving identity: %w", err)
	}

	loop := events.NewLoop(256)
	bus := events.NewBus()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg, bus.Dropped)

	game := gamedata.NewGame(gamedata.Config{
		WSBase:         cfg.WSBase,
		ReconnectDelay: cfg.ReconnectDelay,
		Constrained:    cfg.Constrained,
		ChatHistory:    cfg.ChatHistory,
		AudioPoolSize:  cfg.AudioPoolSize,
		ParticleTTL:    cfg.ParticleTTL,
		Title:          cfg.Title,
		Verbose:        cfg.Verbose,
	}, gamedata.Deps{
		Clock:   loop.Clock(clock.Real{}),
		Post:    loop.Post,
		Dialer:  wshub.NewDialer(),
		Bus:     bus,
		Title:   term,
		Metrics: m,
		Journal: clickBuffer,
	})
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go loop.Run(loopCtx)

	b := broadcast.NewBroadcaster(bus)
	sub := b.Subscribe()
	defer b.Unsubscribe(sub)
	go term.Present(ctx, sub)

	srv := &Server{
		Snapshot: func(ctx context.Context) (gamedata.Snapshot, error) {
			var s gamedata.Snapshot
			err := loop.Do(ctx, func() { s = game.Snapshot() })
			return s, err
		},
		Gatherer: reg,
	}
	if database != nil {
		srv.DB = database
	}
	if cfg.DiagAddr != "" {
		go serveDiagnostics(ctx, cfg.DiagAddr, SetupRoutes(srv))
	}

	var startErr error
	if err := loop.Do(ctx, func() { startErr = game.Start(rec.DisplayName, rec.InstallID) }); err != nil {
		return err
	}
	if startErr != nil {
		return fmt.Errorf("starting session: %w", startErr)
	}
	term.Printf("Hi %s! Enter to punch, m <text> to chat, o/x chat panel, f online-only, s state, q quit.\n", rec.DisplayName)

	defer func() {
		done, stop := context.WithTimeout(loopCtx, time.Second)
		defer stop()
		loop.Do(done, game.Close)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			cmd := ParseCommand(line)
			if cmd.Kind == CmdQuit {
				return nil
			}
			if err := Execute(ctx, loop, game, term, cmd); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func SetupRoutes(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/state", s.handleState)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	return r
}

func serveDiagnostics(ctx context.Context, addr string, h http.Handler) {
	httpSrv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		httpSrv.Close()
	}()
	log.Printf("[Diag] listening on http://%s\n", addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[Diag] server error: %v\n", err)
	}
}

// readLines feeds input lines to the caller. The channel closes on EOF.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func promptIdentity(ctx context.Context, store identity.Store, term *Terminal, lines <-chan string) (identity.Record, error) {
	for {
		term.Printf("Enter your name (max %d characters): ", identity.MaxNameLen)
		select {
		case <-ctx.Done():
			return identity.Record{}, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return identity.Record{}, identity.ErrNotFound
			}
			rec, err := identity.Resolve(ctx, store, line, time.Now())
			if errors.Is(err, identity.ErrEmptyName) || errors.Is(err, identity.ErrNotFound) {
				continue
			}
			return rec, err
		}
	}
}

type clickWriter interface {
	BatchRecordClicks(ctx context.Context, events []db.ClickEvent) error
}

// startClickJournal runs clickBatchWriter on its own context. The returned
// stop flushes everything queued and waits for the writer to return.
func startClickJournal(w clickWriter, size int) (chan<- db.ClickEvent, func()) {
	buffer := make(chan db.ClickEvent, size)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		clickBatchWriter(ctx, w, buffer)
	}()
	return buffer, func() {
		cancel()
		<-done
	}
}

// clickBatchWriter journals clicks in batches of 50 or every 500ms,
// whichever comes first. When ctx ends, everything still queued in buffer
// is written in a final flush.
func clickBatchWriter(ctx context.Context, w clickWriter, buffer <-chan db.ClickEvent) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.ClickEvent, 0, 50)
	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := w.BatchRecordClicks(ctx, batch); err != nil {
			log.Printf("[DB] BatchRecordClicks error: %v\n", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= 50 {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		case <-ctx.Done():
		drain:
			for {
				select {
				case ev := <-buffer:
					batch = append(batch, ev)
				default:
					break drain
				}
			}
			final, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			flush(final)
			cancel()
			return
		}
	}
}
