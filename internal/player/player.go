// Package player drives the external embedded video player.
//
// The app does not render video. It hands the video off to the system
// browser via the provider's embed URL, then keeps a local playback clock
// whose state changes (playing, paused, ended, each with the current
// position) feed the UI event loop. That clock is the only contract the
// rest of the app depends on.
package player

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/haeunlee/bobfriend/internal/catalog"
)

// State of playback as reported by the collaborator.
type State int

const (
	StatePlaying State = iota
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// StateChange is one playback notification. Repeated StatePlaying
// notifications carry position updates while playing.
type StateChange struct {
	State    State
	Position time.Duration
}

// Options are the behavioral flags passed to the embedded player.
type Options struct {
	Autoplay        bool
	Inline          bool
	NoRelated       bool
	MinimalBranding bool
}

// DefaultOptions matches the original player configuration.
func DefaultOptions() Options {
	return Options{Autoplay: true, Inline: true, NoRelated: true, MinimalBranding: true}
}

// EmbedURL builds the embed address for a video id with the given flags.
func EmbedURL(videoID string, o Options) string {
	q := url.Values{}
	if o.Autoplay {
		q.Set("autoplay", "1")
	}
	if o.Inline {
		q.Set("playsinline", "1")
	}
	if o.NoRelated {
		q.Set("rel", "0")
	}
	if o.MinimalBranding {
		q.Set("modestbranding", "1")
	}
	u := "https://www.youtube.com/embed/" + url.PathEscape(videoID)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// Player opens videos externally and runs the playback clock.
// One playback at a time; Start after Start requires a Stop in between.
type Player struct {
	openURL func(string) error
	tick    time.Duration

	mu     sync.Mutex
	paused bool
	pos    time.Duration
	cancel context.CancelFunc
	g      *errgroup.Group
}

// New creates a Player that opens URLs with the platform browser.
func New() *Player {
	return &Player{openURL: openBrowser, tick: time.Second}
}

// Start opens the embed URL and starts the clock for entry. The returned
// channel delivers state changes until StateEnded or Stop, then closes.
func (p *Player) Start(ctx context.Context, entry catalog.Entry, opts Options) (<-chan StateChange, error) {
	if entry.ID == "" {
		return nil, fmt.Errorf("player: entry has no id")
	}
	if err := p.openURL(EmbedURL(entry.ID, opts)); err != nil {
		return nil, fmt.Errorf("open player: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	p.mu.Lock()
	p.paused = false
	p.pos = 0
	p.cancel = cancel
	p.g = g
	p.mu.Unlock()

	events := make(chan StateChange, 16)
	total := time.Duration(entry.DurationMinutes) * time.Minute

	g.Go(func() error {
		defer close(events)

		send := func(sc StateChange) bool {
			select {
			case events <- sc:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send(StateChange{State: StatePlaying, Position: 0}) {
			return nil
		}

		ticker := time.NewTicker(p.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				p.mu.Lock()
				if p.paused {
					p.mu.Unlock()
					continue
				}
				p.pos += p.tick
				pos := p.pos
				p.mu.Unlock()

				if pos >= total {
					send(StateChange{State: StateEnded, Position: total})
					return nil
				}
				if !send(StateChange{State: StatePlaying, Position: pos}) {
					return nil
				}
			}
		}
	})

	return events, nil
}

// Toggle flips between paused and playing and returns the new state
// with the current position. No-op result when nothing is running.
func (p *Player) Toggle() StateChange {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	st := StatePlaying
	if p.paused {
		st = StatePaused
	}
	return StateChange{State: st, Position: p.pos}
}

// Stop cancels the clock and waits for it to exit. Safe when idle.
func (p *Player) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	g := p.g
	p.cancel = nil
	p.g = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if g != nil {
		_ = g.Wait()
	}
}

func openBrowser(u string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", u).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u).Start()
	default:
		return exec.Command("xdg-open", u).Start()
	}
}
