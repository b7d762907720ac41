// Package selection picks the next video for a bucket+mood pair.
//
// The candidate pool is the catalog filtered by bucket and mood; the
// available pool is the candidates minus already-watched ids. When a
// non-empty candidate pool has been fully watched, the watched set is
// cleared and the cycle repeats. The watched set is global: a reset
// triggered by one bucket/mood pair clears ids for every pair.
package selection

import (
	"errors"
	"math/rand"

	"github.com/haeunlee/bobfriend/internal/catalog"
)

var (
	// ErrNoCandidates means the catalog has no entries at all for the
	// requested bucket+mood pair. Callers show a "no content" state.
	ErrNoCandidates = errors.New("selection: no videos for this time and mood")

	// ErrExhausted means every candidate has been watched and the caller
	// asked for a strict pick (no reset). Callers show "all watched".
	ErrExhausted = errors.New("selection: all matching videos watched")
)

// WatchedSet is the slice of store behavior the engine needs.
type WatchedSet interface {
	WatchedIDs() ([]string, error)
	ClearWatched() error
}

// Engine selects unseen videos from the catalog.
type Engine struct {
	catalog *catalog.Catalog
	watched WatchedSet
	intn    func(n int) int
}

// New creates an Engine over the given catalog and watched set.
func New(c *catalog.Catalog, w WatchedSet) *Engine {
	return &Engine{catalog: c, watched: w, intn: rand.Intn}
}

// Pick returns a uniformly random unseen video for bucket+mood.
//
// If every candidate has been watched, the global watched set is cleared
// and the pick is retried over the full candidate pool, so a non-empty
// pool never fails with ErrExhausted. An unreadable watched set degrades
// to "nothing watched" rather than failing the pick.
func (e *Engine) Pick(bucket, mood string) (catalog.Entry, error) {
	return e.pick(bucket, mood, true)
}

// PickStrict is Pick without the reset fallback: once every candidate has
// been watched it returns ErrExhausted. This is the "show another video"
// path, which ends in the all-watched state instead of cycling.
func (e *Engine) PickStrict(bucket, mood string) (catalog.Entry, error) {
	return e.pick(bucket, mood, false)
}

func (e *Engine) pick(bucket, mood string, allowReset bool) (catalog.Entry, error) {
	candidates := e.catalog.Filter(bucket, mood)
	if len(candidates) == 0 {
		return catalog.Entry{}, ErrNoCandidates
	}

	watched, err := e.watched.WatchedIDs()
	if err != nil {
		watched = nil
	}
	seen := make(map[string]bool, len(watched))
	for _, id := range watched {
		seen[id] = true
	}

	available := candidates[:0:0]
	for _, c := range candidates {
		if !seen[c.ID] {
			available = append(available, c)
		}
	}

	if len(available) == 0 {
		if !allowReset {
			return catalog.Entry{}, ErrExhausted
		}
		// Pool exhausted: clear the watched set and start the cycle over.
		// A clear failure is not fatal; the pick still proceeds.
		_ = e.watched.ClearWatched()
		available = candidates
	}

	return available[e.intn(len(available))], nil
}
