// Package ui provides the Bubble Tea TUI for bobfriend.
package ui

import (
	"github.com/haeunlee/bobfriend/internal/catalog"
	"github.com/haeunlee/bobfriend/internal/player"
	"github.com/haeunlee/bobfriend/internal/store"
)

// VideoPicked is sent when the selection engine has chosen a video.
type VideoPicked struct {
	Entry  catalog.Entry
	Bucket string
	Mood   string
	Err    error
}

// NoMoreVideos is sent when a strict pick (the "show another video"
// flow) finds every candidate already watched.
type NoMoreVideos struct{}

// PlaybackStarted is sent when the external player has been opened and
// the playback clock is running. Events delivers the state changes.
type PlaybackStarted struct {
	Events <-chan player.StateChange
	Err    error
}

// PlayerStateMsg is one playback state change from the collaborator.
type PlayerStateMsg player.StateChange

// PauseToggled is the state change produced by a manual pause or
// resume. It is delivered directly rather than through the event
// channel, so handling it must not queue another channel read.
type PauseToggled player.StateChange

// playerEventsClosed is sent when the playback event channel closes.
type playerEventsClosed struct{}

// CountdownTick advances the post-completion receipt countdown.
// Gen guards against stale ticks from a superseded countdown.
type CountdownTick struct {
	Gen int
}

// RecordSaved is sent when a watch record has been persisted.
type RecordSaved struct {
	Record store.WatchRecord
	Err    error
}

// ReceiptLoaded carries the last-watched record for the receipt screen.
// A nil Record means there is nothing to show.
type ReceiptLoaded struct {
	Record *store.WatchRecord
	Days   int
	Err    error
}

// HistoryLoaded carries the full watch history in storage order
// (oldest first); the view reverses it for presentation.
type HistoryLoaded struct {
	Records []store.WatchRecord
	Days    int
	Err     error
}
