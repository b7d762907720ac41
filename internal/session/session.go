// Package session tracks the lifecycle of one viewing session.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/haeunlee/bobfriend/internal/catalog"
	"github.com/haeunlee/bobfriend/internal/store"
)

// State of a viewing session.
type State int

const (
	// Idle: no video bound yet, or the requested video was not found.
	Idle State = iota
	// Playing: a video is bound and the start timestamp is recorded.
	Playing
	// Completed: playback reached its natural end.
	Completed
	// Skipped: the user asked for another video; no record was produced.
	Skipped
	// Finished: the user ended the session explicitly.
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Completed:
		return "completed"
	case Skipped:
		return "skipped"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

var (
	// ErrNotPlaying is returned for end transitions outside Playing.
	ErrNotPlaying = errors.New("session: no active playback")
	// ErrAlreadyPlaying is returned when Start is called twice.
	ErrAlreadyPlaying = errors.New("session: playback already active")
)

// Tracker is the per-session state machine. A Tracker handles exactly one
// video; the skip flow tears the old tracker down and starts a new one.
// Not goroutine-safe: it lives on the UI event loop.
type Tracker struct {
	state     State
	entry     catalog.Entry
	bucket    string
	mood      string
	startedAt time.Time

	now func() time.Time
}

// New creates an idle Tracker.
func New() *Tracker {
	return &Tracker{now: time.Now}
}

// Start binds a video and moves Idle -> Playing, recording the start
// timestamp. bucket and mood are the selection context; empty values fall
// back to the entry's own tags, matching a direct (non-selector) entry.
func (t *Tracker) Start(entry catalog.Entry, bucket, mood string) error {
	if t.state == Playing {
		return ErrAlreadyPlaying
	}
	if bucket == "" {
		bucket = entry.Time
	}
	if mood == "" {
		mood = entry.Mood
	}
	t.state = Playing
	t.entry = entry
	t.bucket = bucket
	t.mood = mood
	t.startedAt = t.now()
	return nil
}

// Complete ends the session on natural playback end and returns the
// watch record. Playing -> Completed.
func (t *Tracker) Complete() (store.WatchRecord, error) {
	return t.end(Completed)
}

// Finish ends the session on an explicit user action and returns the
// watch record. Playing -> Finished.
func (t *Tracker) Finish() (store.WatchRecord, error) {
	return t.end(Finished)
}

// Skip abandons the current video without producing a record.
// Playing -> Skipped.
func (t *Tracker) Skip() error {
	if t.state != Playing {
		return ErrNotPlaying
	}
	t.state = Skipped
	return nil
}

func (t *Tracker) end(s State) (store.WatchRecord, error) {
	if t.state != Playing {
		return store.WatchRecord{}, ErrNotPlaying
	}
	t.state = s

	end := t.now()
	return store.WatchRecord{
		ID:           t.entry.ID,
		ReceiptID:    uuid.NewString(),
		Title:        t.entry.Title,
		Thumbnail:    t.entry.Thumbnail,
		Duration:     t.entry.Duration,
		Channel:      t.entry.Channel,
		WatchedAt:    end,
		StartTime:    t.startedAt,
		EndTime:      end,
		SelectedTime: t.bucket,
		SelectedMood: t.mood,
	}, nil
}

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Entry returns the bound video.
func (t *Tracker) Entry() catalog.Entry { return t.entry }

// Bucket returns the selection bucket in effect.
func (t *Tracker) Bucket() string { return t.bucket }

// Mood returns the selection mood in effect.
func (t *Tracker) Mood() string { return t.mood }

// StartedAt returns the recorded session start time.
func (t *Tracker) StartedAt() time.Time { return t.startedAt }
