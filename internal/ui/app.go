package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haeunlee/bobfriend/internal/catalog"
	"github.com/haeunlee/bobfriend/internal/player"
	"github.com/haeunlee/bobfriend/internal/session"
	"github.com/haeunlee/bobfriend/internal/store"
	"github.com/haeunlee/bobfriend/internal/telemetry"
)

// Screen modes. One root model, four screens plus the terminal
// "not found" state, like the original app's routes.
type screen int

const (
	screenHome screen = iota
	screenPlayer
	screenReceipt
	screenHistory
	screenNotFound
)

// receiptCountdownSeconds is the delay between natural playback end and
// the receipt screen.
const receiptCountdownSeconds = 3

// Callbacks are the injected command functions. The App does NOT hold the
// store, engine or player directly; it receives results via messages.
type Callbacks struct {
	// PickVideo runs the selection engine with the reset fallback
	// (home flow) and returns a VideoPicked.
	PickVideo func(bucket, mood string) tea.Cmd
	// NextVideo runs the strict pick (skip flow) and returns a
	// VideoPicked or NoMoreVideos.
	NextVideo func(bucket, mood string) tea.Cmd
	// BeginPlayback marks the video watched, stops any previous playback
	// and starts the player. Returns a PlaybackStarted.
	BeginPlayback func(entry catalog.Entry) tea.Cmd
	// StopPlayback tears the player down.
	StopPlayback func() tea.Cmd
	// TogglePause flips the player pause state, returning a PauseToggled.
	TogglePause func() tea.Cmd
	// SaveRecord appends a watch record (and marks first use).
	// Returns a RecordSaved.
	SaveRecord func(rec store.WatchRecord) tea.Cmd
	// LoadLastWatched returns a ReceiptLoaded.
	LoadLastWatched func() tea.Cmd
	// SetLastWatched overwrites the last-watched record (history entry
	// revisit) and returns a ReceiptLoaded.
	SetLastWatched func(rec store.WatchRecord) tea.Cmd
	// LoadHistory returns a HistoryLoaded.
	LoadHistory func() tea.Cmd
	// Track records a telemetry event. Fire-and-forget, never blocks.
	Track func(name string, props map[string]any)
}

type homeState struct {
	bucketIdx  int
	moodCursor int
}

type playerState struct {
	entry   catalog.Entry
	bucket  string
	mood    string
	tracker *session.Tracker
	events  <-chan player.StateChange
	spin    spinner.Model

	waiting    bool
	started    bool
	paused     bool
	ended      bool
	pos        time.Duration
	countdown  int
	gen        int
	allWatched bool
}

type receiptState struct {
	rec     *store.WatchRecord
	days    int
	loading bool
}

type historyState struct {
	records []store.WatchRecord // newest first
	cursor  int
	days    int
	loading bool
}

// App is the root Bubble Tea model.
type App struct {
	cbs Callbacks
	cat *catalog.Catalog

	screen  screen
	home    homeState
	play    playerState
	receipt receiptState
	hist    historyState

	width  int
	height int
	err    error
}

// NewApp creates the root model over a loaded catalog.
func NewApp(cat *catalog.Catalog, cbs Callbacks) App {
	a := App{cat: cat, cbs: cbs}
	a.home.bucketIdx = bucketIndex(catalog.DefaultBucket)
	return a
}

func bucketIndex(b string) int {
	for i, v := range catalog.Buckets {
		if v == b {
			return i
		}
	}
	return 0
}

// Init records the initial home page view.
func (a App) Init() tea.Cmd {
	a.track(telemetry.EventPageViewHome, nil)
	return nil
}

func (a App) track(name string, props map[string]any) {
	if a.cbs.Track != nil {
		a.cbs.Track(name, props)
	}
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		if a.screen == screenPlayer && a.play.waiting {
			var cmd tea.Cmd
			a.play.spin, cmd = a.play.spin.Update(msg)
			return a, cmd
		}
		return a, nil

	case VideoPicked:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		// Arriving from the skip flow: retire the old session first.
		if a.screen == screenPlayer && a.play.tracker != nil && a.play.tracker.State() == session.Playing {
			_ = a.play.tracker.Skip()
		}
		cmd := a.enterPlayer(msg.Entry, msg.Bucket, msg.Mood)
		return a, cmd

	case NoMoreVideos:
		// Terminal presentation state: playback continues, the skip
		// action disappears, and the user must navigate away.
		if a.screen == screenPlayer {
			a.play.allWatched = true
		}
		return a, nil

	case PlaybackStarted:
		if a.screen != screenPlayer {
			return a, nil
		}
		a.play.waiting = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.play.events = msg.Events
		return a, listenPlayer(msg.Events)

	case PlayerStateMsg:
		return a.handlePlayerState(msg)

	case PauseToggled:
		if a.screen != screenPlayer {
			return a, nil
		}
		a.play.pos = msg.Position
		if msg.State == player.StatePaused {
			a.play.paused = true
			a.track(telemetry.EventVideoPlayPause, a.playbackProps())
		} else {
			a.play.paused = false
			a.track(telemetry.EventVideoPlayStart, a.playbackProps())
		}
		return a, nil

	case playerEventsClosed:
		return a, nil

	case CountdownTick:
		return a.handleCountdown(msg)

	case RecordSaved:
		// Even a failed save moves on to the receipt; the receipt view
		// degrades to its empty state if last-watched is unreadable.
		a.screen = screenReceipt
		a.receipt = receiptState{loading: true}
		a.track(telemetry.EventPageViewReceipt, nil)
		if a.cbs.LoadLastWatched == nil {
			return a, nil
		}
		return a, a.cbs.LoadLastWatched()

	case ReceiptLoaded:
		a.receipt.loading = false
		if msg.Err == nil {
			a.receipt.rec = msg.Record
			a.receipt.days = msg.Days
		}
		return a, nil

	case HistoryLoaded:
		a.hist.loading = false
		a.hist.days = msg.Days
		a.hist.records = nil
		if msg.Err == nil {
			// Storage order is oldest first; present newest first.
			for i := len(msg.Records) - 1; i >= 0; i-- {
				a.hist.records = append(a.hist.records, msg.Records[i])
			}
		}
		if a.hist.cursor >= len(a.hist.records) {
			a.hist.cursor = 0
		}
		return a, nil
	}

	return a, nil
}

// handleKey processes keyboard input, per screen.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.err != nil {
		a.err = nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	}

	switch a.screen {
	case screenHome:
		return a.handleHomeKey(msg)
	case screenPlayer:
		return a.handlePlayerKey(msg)
	case screenReceipt:
		return a.handleReceiptKey(msg)
	case screenHistory:
		return a.handleHistoryKey(msg)
	case screenNotFound:
		switch msg.String() {
		case "enter", "esc", "h":
			return a.gotoHome(nil)
		}
	}
	return a, nil
}

func (a App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left":
		if a.home.bucketIdx > 0 {
			a.home.bucketIdx--
			a.track(telemetry.EventSelectTime, map[string]any{"time": a.bucket()})
		}
	case "right":
		if a.home.bucketIdx < len(catalog.Buckets)-1 {
			a.home.bucketIdx++
			a.track(telemetry.EventSelectTime, map[string]any{"time": a.bucket()})
		}
	case "1", "2", "3":
		idx := int(msg.String()[0] - '1')
		if idx < len(catalog.Buckets) {
			a.home.bucketIdx = idx
			a.track(telemetry.EventSelectTime, map[string]any{"time": a.bucket()})
		}
	case "up", "k":
		if a.home.moodCursor > 0 {
			a.home.moodCursor--
		}
	case "down", "j":
		if a.home.moodCursor < len(catalog.Moods)-1 {
			a.home.moodCursor++
		}
	case "enter":
		mood := catalog.Moods[a.home.moodCursor]
		a.track(telemetry.EventSelectMenu, map[string]any{"time": a.bucket(), "mood": mood.ID})
		if a.cbs.PickVideo == nil {
			return a, nil
		}
		return a, a.cbs.PickVideo(a.bucket(), mood.ID)
	case "h":
		return a.gotoHistory()
	}
	return a, nil
}

func (a App) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f":
		a.track(telemetry.EventClickFinishMeal, a.playbackProps())
		a.play.gen++ // cancel any pending countdown
		a.play.countdown = 0
		rec, err := a.play.tracker.Finish()
		if err != nil {
			return a, nil
		}
		return a, tea.Batch(a.stopPlayback(), a.saveRecord(rec))

	case "n":
		if !a.moodAllowsSkip() || a.play.allWatched {
			return a, nil
		}
		a.track(telemetry.EventClickOtherVideo, a.playbackProps())
		a.play.gen++
		a.play.countdown = 0
		if a.cbs.NextVideo == nil {
			return a, nil
		}
		return a, a.cbs.NextVideo(a.play.bucket, a.play.mood)

	case " ":
		if !a.play.started || a.play.ended || a.cbs.TogglePause == nil {
			return a, nil
		}
		return a, a.cbs.TogglePause()

	case "esc", "h":
		a.play.gen++
		a.play.countdown = 0
		return a.gotoHome(a.stopPlayback())
	}
	return a, nil
}

func (a App) handleReceiptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		rec := a.receipt.rec
		if rec == nil {
			return a, nil
		}
		a.track(telemetry.EventClickWatchAgain, map[string]any{
			"video_id":    rec.ID,
			"video_title": rec.Title,
		})
		return a.openByID(rec.ID, rec.SelectedTime, rec.SelectedMood)
	case "y":
		return a.gotoHistory()
	case "esc", "h":
		return a.gotoHome(nil)
	}
	return a, nil
}

func (a App) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.hist.cursor > 0 {
			a.hist.cursor--
		}
	case "down", "j":
		if a.hist.cursor < len(a.hist.records)-1 {
			a.hist.cursor++
		}
	case "enter":
		if len(a.hist.records) == 0 {
			return a, nil
		}
		rec := a.hist.records[a.hist.cursor]
		a.track(telemetry.EventClickReceiptCard, map[string]any{
			"video_id":    rec.ID,
			"video_title": rec.Title,
		})
		a.screen = screenReceipt
		a.receipt = receiptState{loading: true}
		a.track(telemetry.EventPageViewReceipt, nil)
		if a.cbs.SetLastWatched == nil {
			return a, nil
		}
		return a, a.cbs.SetLastWatched(rec)
	case "esc", "h":
		return a.gotoHome(nil)
	}
	return a, nil
}

func (a App) handlePlayerState(msg PlayerStateMsg) (tea.Model, tea.Cmd) {
	if a.screen != screenPlayer {
		return a, nil
	}
	a.play.pos = msg.Position

	switch msg.State {
	case player.StatePlaying:
		a.play.paused = false
		if !a.play.started {
			a.play.started = true
			a.track(telemetry.EventVideoPlayStart, a.playbackProps())
		}
		return a, listenPlayer(a.play.events)

	case player.StatePaused:
		a.play.paused = true
		a.track(telemetry.EventVideoPlayPause, a.playbackProps())
		return a, listenPlayer(a.play.events)

	case player.StateEnded:
		a.play.ended = true
		a.track(telemetry.EventVideoPlayEnd, a.playbackProps())
		a.play.gen++
		a.play.countdown = receiptCountdownSeconds
		return a, countdownTick(a.play.gen)
	}
	return a, nil
}

func (a App) handleCountdown(msg CountdownTick) (tea.Model, tea.Cmd) {
	// Stale ticks from a superseded countdown carry an old generation.
	if a.screen != screenPlayer || msg.Gen != a.play.gen || a.play.countdown <= 0 {
		return a, nil
	}
	a.play.countdown--
	if a.play.countdown > 0 {
		return a, countdownTick(msg.Gen)
	}
	rec, err := a.play.tracker.Complete()
	if err != nil {
		return a, nil
	}
	return a, tea.Batch(a.stopPlayback(), a.saveRecord(rec))
}

// enterPlayer starts a fresh session for entry and switches screens.
func (a *App) enterPlayer(entry catalog.Entry, bucket, mood string) tea.Cmd {
	tr := session.New()
	if err := tr.Start(entry, bucket, mood); err != nil {
		a.err = err
		return nil
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a.play = playerState{
		entry:   entry,
		bucket:  tr.Bucket(),
		mood:    tr.Mood(),
		tracker: tr,
		spin:    sp,
		waiting: true,
	}
	a.screen = screenPlayer
	a.err = nil

	a.track(telemetry.EventPageViewPlayer, map[string]any{
		"video_id":    entry.ID,
		"video_title": entry.Title,
		"channel":     entry.Channel,
		"time":        tr.Bucket(),
		"mood":        tr.Mood(),
	})

	if a.cbs.BeginPlayback == nil {
		return a.play.spin.Tick
	}
	return tea.Batch(a.cbs.BeginPlayback(entry), a.play.spin.Tick)
}

// openByID re-enters the player from a stored record (watch-again flow).
// An id missing from the catalog is terminal: the not-found screen.
func (a App) openByID(id, bucket, mood string) (tea.Model, tea.Cmd) {
	entry, ok := a.cat.FindByID(id)
	if !ok {
		a.screen = screenNotFound
		return a, nil
	}
	cmd := a.enterPlayer(entry, bucket, mood)
	return a, cmd
}

func (a App) gotoHome(extra tea.Cmd) (tea.Model, tea.Cmd) {
	a.screen = screenHome
	a.track(telemetry.EventPageViewHome, nil)
	return a, extra
}

func (a App) gotoHistory() (tea.Model, tea.Cmd) {
	a.screen = screenHistory
	a.hist.loading = true
	a.hist.cursor = 0
	a.track(telemetry.EventPageViewHistory, nil)
	if a.cbs.LoadHistory == nil {
		return a, nil
	}
	return a, a.cbs.LoadHistory()
}

func (a App) stopPlayback() tea.Cmd {
	if a.cbs.StopPlayback == nil {
		return nil
	}
	return a.cbs.StopPlayback()
}

func (a App) saveRecord(rec store.WatchRecord) tea.Cmd {
	if a.cbs.SaveRecord == nil {
		return nil
	}
	return a.cbs.SaveRecord(rec)
}

func (a App) bucket() string {
	return catalog.Buckets[a.home.bucketIdx]
}

func (a App) moodAllowsSkip() bool {
	m, ok := catalog.MoodByID(a.play.mood)
	return ok && m.AllowsSkip
}

func (a App) playbackProps() map[string]any {
	return map[string]any{
		"video_id":     a.play.entry.ID,
		"video_title":  a.play.entry.Title,
		"current_time": a.play.pos.Seconds(),
	}
}

// listenPlayer waits for the next playback state change.
func listenPlayer(ch <-chan player.StateChange) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		sc, ok := <-ch
		if !ok {
			return playerEventsClosed{}
		}
		return PlayerStateMsg(sc)
	}
}

func countdownTick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return CountdownTick{Gen: gen}
	})
}

// Screen state accessors for tests.

func (a App) Err() error { return a.err }
