package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTrackString(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "title and artist",
			title:  "Song Title",
			artist: "Artist Name",
			want:   "Song Title - Artist Name",
		},
		{
			name:   "no artist",
			title:  "Song Title",
			artist: "",
			want:   "Song Title",
		},
		{
			name:   "artist containing separator",
			title:  "A",
			artist: "B - C",
			want:   "A - B - C",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := TrackString(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("TrackString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewFileLogger(t *testing.T) {
	t.Run("creates missing parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tmp", "nested", "app.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logger.Info("hello")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected log file at %s: %v", path, err)
		}
	})

	t.Run("appends to an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		if err := os.WriteFile(path, []byte("existing\n"), 0644); err != nil {
			t.Fatal(err)
		}
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logger.Info("more")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := string(data); len(got) <= len("existing\n") || got[:9] != "existing\n" {
			t.Errorf("expected appended content, got %q", got)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected unique IDs")
	}
}
