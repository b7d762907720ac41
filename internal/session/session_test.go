package session

import (
	"errors"
	"testing"
	"time"

	"github.com/haeunlee/bobfriend/internal/catalog"
)

var testEntry = catalog.Entry{
	ID:        "vid-1",
	Title:     "백종원 김치볶음밥",
	Thumbnail: "https://img.example/vid-1.jpg",
	Duration:  "14:20",
	Channel:   "요리왕",
	Time:      "10",
	Mood:      "funny",
}

// fixedClock returns successive timestamps one minute apart.
func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Minute)
		return now
	}
}

func TestLifecycleComplete(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := New()
	tr.now = fixedClock(start)

	if tr.State() != Idle {
		t.Fatalf("state = %v, want idle", tr.State())
	}
	if err := tr.Start(testEntry, "20", "chef"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if tr.State() != Playing {
		t.Fatalf("state = %v, want playing", tr.State())
	}
	if !tr.StartedAt().Equal(start) {
		t.Errorf("startedAt = %v, want %v", tr.StartedAt(), start)
	}

	rec, err := tr.Complete()
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if tr.State() != Completed {
		t.Errorf("state = %v, want completed", tr.State())
	}

	if rec.ID != testEntry.ID || rec.Title != testEntry.Title || rec.Channel != testEntry.Channel {
		t.Errorf("record lost catalog fields: %+v", rec)
	}
	if rec.ReceiptID == "" {
		t.Error("record has no receipt id")
	}
	// The selection context wins over the video's own tags.
	if rec.SelectedTime != "20" || rec.SelectedMood != "chef" {
		t.Errorf("selection context = %s/%s, want 20/chef", rec.SelectedTime, rec.SelectedMood)
	}
	if !rec.StartTime.Equal(start) {
		t.Errorf("startTime = %v, want %v", rec.StartTime, start)
	}
	if !rec.WatchedAt.Equal(rec.EndTime) {
		t.Errorf("watchedAt %v != endTime %v", rec.WatchedAt, rec.EndTime)
	}
	if !rec.EndTime.After(rec.StartTime) {
		t.Errorf("endTime %v not after startTime %v", rec.EndTime, rec.StartTime)
	}
}

func TestFinish(t *testing.T) {
	tr := New()
	if err := tr.Start(testEntry, "10", "funny"); err != nil {
		t.Fatal(err)
	}
	rec, err := tr.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if tr.State() != Finished {
		t.Errorf("state = %v, want finished", tr.State())
	}
	if rec.ID != testEntry.ID {
		t.Errorf("record id = %s", rec.ID)
	}
}

func TestStartFallsBackToEntryTags(t *testing.T) {
	tr := New()
	if err := tr.Start(testEntry, "", ""); err != nil {
		t.Fatal(err)
	}
	if tr.Bucket() != "10" || tr.Mood() != "funny" {
		t.Errorf("context = %s/%s, want entry tags 10/funny", tr.Bucket(), tr.Mood())
	}
}

func TestSkipProducesNoRecord(t *testing.T) {
	tr := New()
	if err := tr.Start(testEntry, "10", "funny"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if tr.State() != Skipped {
		t.Errorf("state = %v, want skipped", tr.State())
	}
	// The session is over; a late completion must not mint a record.
	if _, err := tr.Complete(); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Complete after skip: err = %v, want ErrNotPlaying", err)
	}
}

func TestEndRequiresPlaying(t *testing.T) {
	tr := New()
	if _, err := tr.Complete(); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Complete on idle: %v", err)
	}
	if _, err := tr.Finish(); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Finish on idle: %v", err)
	}
	if err := tr.Skip(); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Skip on idle: %v", err)
	}
}

func TestDoubleStart(t *testing.T) {
	tr := New()
	if err := tr.Start(testEntry, "10", "funny"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Start(testEntry, "10", "funny"); !errors.Is(err, ErrAlreadyPlaying) {
		t.Errorf("second Start: err = %v, want ErrAlreadyPlaying", err)
	}
}

func TestDoubleCompleteMintsOneRecord(t *testing.T) {
	tr := New()
	if err := tr.Start(testEntry, "10", "funny"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Complete(); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Complete(); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("second Complete: err = %v, want ErrNotPlaying", err)
	}
}

func TestReceiptIDsAreUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 5; i++ {
		tr := New()
		if err := tr.Start(testEntry, "10", "funny"); err != nil {
			t.Fatal(err)
		}
		rec, err := tr.Complete()
		if err != nil {
			t.Fatal(err)
		}
		if ids[rec.ReceiptID] {
			t.Fatalf("duplicate receipt id %s", rec.ReceiptID)
		}
		ids[rec.ReceiptID] = true
	}
}
