// Package catalog holds the static video catalog for bobfriend.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/videos.json
var builtin []byte

// Entry is a single video in the catalog. Entries are read-only for the
// process lifetime; the catalog never mutates or deletes them.
type Entry struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Thumbnail       string `json:"thumbnail" yaml:"thumbnail"`
	Duration        string `json:"duration" yaml:"duration"` // human label, e.g. "19:35"
	DurationMinutes int    `json:"durationMinutes" yaml:"duration_minutes"`
	Time            string `json:"time" yaml:"time"` // duration bucket: "10", "20", "30"
	Mood            string `json:"mood" yaml:"mood"`
	URL             string `json:"url" yaml:"url"`
	Channel         string `json:"channel" yaml:"channel"`
}

// Buckets is the fixed set of session-duration choices, in minutes.
var Buckets = []string{"10", "20", "30"}

// DefaultBucket is preselected on the home screen.
const DefaultBucket = "20"

// Mood describes one content category. AllowsSkip gates the
// "show another video" action on the player screen.
type Mood struct {
	ID         string
	Label      string
	Badge      string
	AllowsSkip bool
}

// Moods in menu order. The chef pick is a curated selection, so it
// cannot be skipped.
var Moods = []Mood{
	{ID: "chef", Label: "셰프 추천", Badge: "Best", AllowsSkip: false},
	{ID: "trending", Label: "오늘의 특선", AllowsSkip: true},
	{ID: "info", Label: "영양 만점", AllowsSkip: true},
	{ID: "funny", Label: "꿀잼 소스", AllowsSkip: true},
}

// MoodByID looks up a mood definition.
func MoodByID(id string) (Mood, bool) {
	for _, m := range Moods {
		if m.ID == id {
			return m, true
		}
	}
	return Mood{}, false
}

// MoodLabel returns the display label for a mood id, or the id itself
// if the mood is unknown (old history records stay renderable).
func MoodLabel(id string) string {
	if m, ok := MoodByID(id); ok {
		return m.Label
	}
	return id
}

// ValidBucket reports whether b is one of the fixed duration buckets.
func ValidBucket(b string) bool {
	for _, v := range Buckets {
		if v == b {
			return true
		}
	}
	return false
}

// Catalog is the loaded, validated entry set.
type Catalog struct {
	entries []Entry
	byID    map[string]Entry
}

type videoFile struct {
	Videos []Entry `json:"videos" yaml:"videos"`
}

// Load parses the embedded catalog and, when overlayPath names an existing
// YAML file, merges its entries in: same id replaces the builtin entry,
// new ids are appended. An empty overlayPath loads the builtin set only.
func Load(overlayPath string) (*Catalog, error) {
	var vf videoFile
	if err := json.Unmarshal(builtin, &vf); err != nil {
		return nil, fmt.Errorf("parse builtin catalog: %w", err)
	}
	entries := vf.Videos

	if overlayPath != "" {
		data, err := os.ReadFile(overlayPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read catalog overlay: %w", err)
			}
		} else {
			var overlay videoFile
			if err := yaml.Unmarshal(data, &overlay); err != nil {
				return nil, fmt.Errorf("parse catalog overlay: %w", err)
			}
			entries = merge(entries, overlay.Videos)
		}
	}

	return New(entries)
}

// New builds a validated catalog from an explicit entry set.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{entries: entries, byID: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", e.Title)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", e.ID)
		}
		if !ValidBucket(e.Time) {
			return nil, fmt.Errorf("catalog entry %s: unknown bucket %q", e.ID, e.Time)
		}
		if _, ok := MoodByID(e.Mood); !ok {
			return nil, fmt.Errorf("catalog entry %s: unknown mood %q", e.ID, e.Mood)
		}
		c.byID[e.ID] = e
	}
	return c, nil
}

func merge(base, overlay []Entry) []Entry {
	idx := make(map[string]int, len(base))
	for i, e := range base {
		idx[e.ID] = i
	}
	for _, e := range overlay {
		if i, ok := idx[e.ID]; ok {
			base[i] = e
		} else {
			idx[e.ID] = len(base)
			base = append(base, e)
		}
	}
	return base
}

// Entries returns all catalog entries in file order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// FindByID returns the entry with the given id.
func (c *Catalog) FindByID(id string) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Filter returns the candidate pool for a bucket+mood pair.
func (c *Catalog) Filter(bucket, mood string) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Time == bucket && e.Mood == mood {
			out = append(out, e)
		}
	}
	return out
}
