package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("builtin catalog is empty")
	}

	// Every bucket+mood pair must have at least one candidate, otherwise
	// a menu choice on the home screen would dead-end.
	for _, b := range Buckets {
		for _, m := range Moods {
			if len(c.Filter(b, m.ID)) == 0 {
				t.Errorf("no videos for bucket %s mood %s", b, m.ID)
			}
		}
	}
}

func TestLoadOverlayMerge(t *testing.T) {
	base, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	existing := base.Entries()[0]

	overlay := `videos:
  - id: ` + existing.ID + `
    title: replaced title
    duration: "12:00"
    duration_minutes: 12
    time: "10"
    mood: chef
    channel: overlay channel
  - id: overlay-new-1
    title: brand new
    duration: "08:00"
    duration_minutes: 8
    time: "10"
    mood: funny
    channel: overlay channel
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load with overlay: %v", err)
	}
	if c.Len() != base.Len()+1 {
		t.Errorf("len = %d, want %d", c.Len(), base.Len()+1)
	}

	got, ok := c.FindByID(existing.ID)
	if !ok {
		t.Fatalf("replaced entry %s missing", existing.ID)
	}
	if got.Title != "replaced title" {
		t.Errorf("overlay did not replace entry: title = %q", got.Title)
	}
	if _, ok := c.FindByID("overlay-new-1"); !ok {
		t.Error("overlay entry overlay-new-1 missing")
	}
}

func TestLoadMissingOverlayIsIgnored(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("catalog empty")
	}
}

func TestNewValidation(t *testing.T) {
	valid := Entry{ID: "a", Title: "A", Time: "10", Mood: "chef"}

	tests := []struct {
		name    string
		entries []Entry
		wantErr bool
	}{
		{"valid", []Entry{valid}, false},
		{"missing id", []Entry{{Title: "x", Time: "10", Mood: "chef"}}, true},
		{"duplicate id", []Entry{valid, valid}, true},
		{"bad bucket", []Entry{{ID: "b", Time: "15", Mood: "chef"}}, true},
		{"bad mood", []Entry{{ID: "c", Time: "10", Mood: "spicy"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	c, err := New([]Entry{
		{ID: "a", Time: "10", Mood: "chef"},
		{ID: "b", Time: "10", Mood: "funny"},
		{ID: "c", Time: "20", Mood: "chef"},
		{ID: "d", Time: "10", Mood: "chef"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := c.Filter("10", "chef")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "d" {
		t.Errorf("Filter(10, chef) = %+v", got)
	}
	if got := c.Filter("30", "chef"); got != nil {
		t.Errorf("Filter(30, chef) = %+v, want nil", got)
	}
}

func TestMoodLabel(t *testing.T) {
	if got := MoodLabel("chef"); got != "셰프 추천" {
		t.Errorf("MoodLabel(chef) = %q", got)
	}
	// Unknown moods from old records fall back to the raw id.
	if got := MoodLabel("retired-mood"); got != "retired-mood" {
		t.Errorf("MoodLabel(retired-mood) = %q", got)
	}
}

func TestMoodSkipRules(t *testing.T) {
	chef, ok := MoodByID("chef")
	if !ok {
		t.Fatal("chef mood missing")
	}
	if chef.AllowsSkip {
		t.Error("chef pick must not allow skipping")
	}
	if chef.Badge != "Best" {
		t.Errorf("chef badge = %q", chef.Badge)
	}
	for _, id := range []string{"trending", "info", "funny"} {
		m, ok := MoodByID(id)
		if !ok || !m.AllowsSkip {
			t.Errorf("mood %s should allow skip", id)
		}
	}
}
