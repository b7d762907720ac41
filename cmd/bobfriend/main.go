package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haeunlee/bobfriend/internal/catalog"
	"github.com/haeunlee/bobfriend/internal/config"
	"github.com/haeunlee/bobfriend/internal/logging"
	"github.com/haeunlee/bobfriend/internal/player"
	"github.com/haeunlee/bobfriend/internal/selection"
	"github.com/haeunlee/bobfriend/internal/store"
	"github.com/haeunlee/bobfriend/internal/telemetry"
	"github.com/haeunlee/bobfriend/internal/ui"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	dbPath := flag.String("db", "", "override database path")
	flag.Parse()

	if *showVersion {
		fmt.Println("bobfriend", version)
		return
	}

	if err := run(*dbPath); err != nil {
		fmt.Fprintln(os.Stderr, "bobfriend:", err)
		os.Exit(1)
	}
}

func run(dbOverride string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	if err := logging.Init(dataDir); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()
	logging.Info("starting", "version", version, "dataDir", dataDir)

	cat, err := catalog.Load(cfg.ResolveCatalogOverlay(dataDir))
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logging.Info("catalog loaded", "videos", cat.Len())

	if dbOverride == "" {
		dbOverride = filepath.Join(dataDir, "bobfriend.db")
	}
	st, err := store.Open(dbOverride)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	tel := telemetry.NewNull()
	if cfg.Telemetry.Enabled {
		spool, err := os.OpenFile(filepath.Join(dataDir, "events.jsonl"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logging.Warn("telemetry spool unavailable", "error", err)
		} else {
			defer spool.Close()
			tel = telemetry.Init(spool, cfg.Telemetry.CollectorURL)
		}
	}
	defer tel.Close()

	engine := selection.New(cat, st)
	pl := player.New()
	defer pl.Stop()

	opts := player.Options{
		Autoplay:        cfg.Player.Autoplay,
		Inline:          cfg.Player.Inline,
		NoRelated:       cfg.Player.NoRelated,
		MinimalBranding: cfg.Player.MinimalBranding,
	}

	cbs := ui.Callbacks{
		PickVideo: func(bucket, mood string) tea.Cmd {
			return func() tea.Msg {
				entry, err := engine.Pick(bucket, mood)
				if err != nil {
					logging.Warn("pick failed", "bucket", bucket, "mood", mood, "error", err)
					return ui.VideoPicked{Err: err}
				}
				return ui.VideoPicked{Entry: entry, Bucket: bucket, Mood: mood}
			}
		},
		NextVideo: func(bucket, mood string) tea.Cmd {
			return func() tea.Msg {
				entry, err := engine.PickStrict(bucket, mood)
				if errors.Is(err, selection.ErrExhausted) {
					return ui.NoMoreVideos{}
				}
				if err != nil {
					return ui.VideoPicked{Err: err}
				}
				return ui.VideoPicked{Entry: entry, Bucket: bucket, Mood: mood}
			}
		},
		BeginPlayback: func(entry catalog.Entry) tea.Cmd {
			return func() tea.Msg {
				pl.Stop()
				if err := st.AddWatched(entry.ID); err != nil {
					logging.Warn("mark watched failed", "id", entry.ID, "error", err)
				}
				events, err := pl.Start(context.Background(), entry, opts)
				if err != nil {
					return ui.PlaybackStarted{Err: err}
				}
				logging.Info("playback started", "id", entry.ID, "title", entry.Title)
				return ui.PlaybackStarted{Events: events}
			}
		},
		StopPlayback: func() tea.Cmd {
			return func() tea.Msg {
				pl.Stop()
				return nil
			}
		},
		TogglePause: func() tea.Cmd {
			return func() tea.Msg {
				return ui.PauseToggled(pl.Toggle())
			}
		},
		SaveRecord: func(rec store.WatchRecord) tea.Cmd {
			return func() tea.Msg {
				if err := st.MarkFirstUseIfAbsent(time.Now()); err != nil {
					logging.Warn("mark first use failed", "error", err)
				}
				if err := st.Append(rec); err != nil {
					logging.Error("append record failed", "id", rec.ID, "error", err)
					return ui.RecordSaved{Record: rec, Err: err}
				}
				logging.Info("record saved", "id", rec.ID, "receipt", rec.ReceiptID)
				return ui.RecordSaved{Record: rec}
			}
		},
		LoadLastWatched: func() tea.Cmd {
			return func() tea.Msg {
				rec, err := st.LastWatched()
				if err != nil {
					return ui.ReceiptLoaded{Err: err}
				}
				return ui.ReceiptLoaded{Record: rec, Days: st.DaysSinceFirstUse(time.Now())}
			}
		},
		SetLastWatched: func(rec store.WatchRecord) tea.Cmd {
			return func() tea.Msg {
				if err := st.SetLastWatched(rec); err != nil {
					return ui.ReceiptLoaded{Err: err}
				}
				r := rec
				return ui.ReceiptLoaded{Record: &r, Days: st.DaysSinceFirstUse(time.Now())}
			}
		},
		LoadHistory: func() tea.Cmd {
			return func() tea.Msg {
				records, err := st.History()
				if err != nil {
					return ui.HistoryLoaded{Err: err}
				}
				return ui.HistoryLoaded{Records: records, Days: st.DaysSinceFirstUse(time.Now())}
			}
		},
		Track: tel.Emit,
	}

	app := ui.NewApp(cat, cbs)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	logging.Info("exiting")
	return nil
}
