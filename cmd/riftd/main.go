package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/la2go-rift/internal/config"
	"github.com/udisondev/la2go-rift/internal/db"
	"github.com/udisondev/la2go-rift/internal/game/affect"
	"github.com/udisondev/la2go-rift/internal/game/geo"
	"github.com/udisondev/la2go-rift/internal/game/rift"
	"github.com/udisondev/la2go-rift/internal/html"
	"github.com/udisondev/la2go-rift/internal/model"
	"github.com/udisondev/la2go-rift/internal/notify"
	"github.com/udisondev/la2go-rift/internal/spawn"
	"github.com/udisondev/la2go-rift/internal/world"
)

const defaultConfigPath = "config/rift.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := defaultConfigPath
	if p := os.Getenv("RIFT_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.LoadRift(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	slog.Info("rift config loaded", "path", cfgPath, "storage", cfg.Storage, "log_level", logLevel)

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	templates, err := spawn.LoadTemplateTable(ctx, store.npcs)
	if err != nil {
		return fmt.Errorf("loading npc templates: %w", err)
	}

	htmlCache, err := html.NewCache(cfg.HTMLDir, false)
	if err != nil {
		return fmt.Errorf("loading html cache: %w", err)
	}
	slog.Info("html cache ready", "dir", cfg.HTMLDir, "files", htmlCache.Len())
	dialogs := html.NewDialogManager(htmlCache)

	// NATS: внешний сервер из конфига или встроенный
	var embedded *notify.EmbeddedServer
	natsURL := cfg.NATSURL
	if natsURL == "" {
		embedded, err = notify.NewEmbeddedServer()
		if err != nil {
			return fmt.Errorf("creating embedded nats: %w", err)
		}
		if err := embedded.Start(); err != nil {
			return fmt.Errorf("starting embedded nats: %w", err)
		}
		natsURL = embedded.ClientURL()
		slog.Info("embedded nats started", "url", natsURL)
	}

	conn, err := nats.Connect(natsURL, nats.Name("riftd"), nats.MaxReconnects(-1))
	if err != nil {
		if embedded != nil {
			embedded.Shutdown()
		}
		return fmt.Errorf("connecting to nats %s: %w", natsURL, err)
	}
	defer conn.Close()

	w := world.New()
	spawner := spawn.NewRiftSpawner(w, world.NewObjectIDGenerator(), templates)
	messenger := notify.NewMessenger(conn, dialogs)

	mgr := rift.NewManager(cfg, rift.Deps{
		Rooms:      store.rooms,
		Dialogs:    messenger,
		Teleporter: w,
		Spawner:    spawner,
		SpawnFile:  cfg.SpawnFile(),
		OnIllegalAction: func(player *model.Player, message string) {
			slog.Warn("illegal action", "player", player.Name(), "object_id", player.ObjectID(), "message", message)
		},
	})
	if err := mgr.Reload(ctx); err != nil {
		return fmt.Errorf("loading rift rooms: %w", err)
	}

	presence := notify.NewPresenceTracker(w, mgr, templates)
	bypasses := notify.NewBypassListener(mgr, w, messenger)
	resolver := affect.NewResolver(w, geo.NewLineOfSight(), nil, cfg.PartyRange)
	affectService := notify.NewAffectService(resolver, w)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting presence tracker")
		return presence.Run(gctx, conn)
	})

	g.Go(func() error {
		slog.Info("starting bypass listener")
		return bypasses.Run(gctx, conn)
	})

	g.Go(func() error {
		slog.Info("starting affect service", "party_range", cfg.PartyRange)
		return affectService.Run(gctx, conn)
	})

	// SIGHUP перечитывает комнаты
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				if err := mgr.Reload(gctx); err != nil {
					if errors.Is(err, rift.ErrRiftBusy) {
						slog.Warn("rift reload skipped", "error", err)
						continue
					}
					slog.Error("rift reload failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("stopping rift sessions", "active", len(mgr.ActiveSessions()))
		mgr.Shutdown()

		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.DrainDelay+time.Second)
		defer cancel()
		if err := conn.FlushWithContext(drainCtx); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			slog.Warn("flushing nats", "error", err)
		}
		if embedded != nil {
			conn.Close()
			embedded.Shutdown()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

type storage struct {
	rooms rift.RoomSource
	npcs  spawn.NpcRepository
	close func()
}

func openStorage(ctx context.Context, cfg config.Rift) (*storage, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite %s: %w", cfg.SQLitePath, err)
		}
		slog.Info("sqlite storage ready", "path", cfg.SQLitePath)
		return &storage{
			rooms: db.NewSQLiteRiftRepository(sqlDB),
			npcs:  db.NewSQLiteNpcRepository(sqlDB),
			close: func() {
				if err := sqlDB.Close(); err != nil {
					slog.Warn("closing sqlite", "error", err)
				}
			},
		}, nil

	default:
		pool, err := db.OpenPostgres(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		slog.Info("postgres storage ready", "host", cfg.Database.Host, "db", cfg.Database.DBName)
		return &storage{
			rooms: db.NewRiftRepository(pool),
			npcs:  db.NewNpcRepository(pool),
			close: pool.Close,
		}, nil
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
