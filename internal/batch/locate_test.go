package batch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"morning maps to previous day PM", time.Date(2024, 1, 15, 3, 0, 0, 0, time.Local), "20240114PM"},
		{"just after shift is AM", time.Date(2024, 1, 15, 6, 0, 0, 0, time.Local), "20240115AM"},
		{"late morning is AM", time.Date(2024, 1, 15, 11, 59, 0, 0, time.Local), "20240115AM"},
		{"afternoon is PM", time.Date(2024, 1, 15, 18, 0, 0, 0, time.Local), "20240115PM"},
		{"just before midnight is PM", time.Date(2024, 1, 15, 23, 59, 59, 0, time.Local), "20240115PM"},
		{"just after midnight stays previous day", time.Date(2024, 1, 16, 0, 1, 0, 0, time.Local), "20240115PM"},
		{"month boundary", time.Date(2024, 2, 1, 2, 0, 0, 0, time.Local), "20240131PM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.now); got != tt.want {
				t.Errorf("Name(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

func TestName_StableWithinWindow(t *testing.T) {
	// All times inside the same shifted half-day must yield the same name.
	base := time.Date(2024, 1, 15, 6, 0, 0, 0, time.Local)
	want := Name(base)
	for _, offset := range []time.Duration{time.Second, time.Hour, 6 * time.Hour, 12*time.Hour - time.Second} {
		if got := Name(base.Add(offset)); got != want {
			t.Errorf("Name(base+%v) = %q, want %q", offset, got, want)
		}
	}
	if got := Name(base.Add(12 * time.Hour)); got == want {
		t.Errorf("Name(base+12h) = %q, want a new window", got)
	}
}

func TestLocate_Exists(t *testing.T) {
	cam := t.TempDir()
	// 10:00 − 6h lands at 04:00, still in the morning window.
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)
	batchDir := filepath.Join(cam, "20240115AM")
	if err := os.Mkdir(batchDir, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(cam, now)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != batchDir {
		t.Errorf("Locate = %q, want %q", got, batchDir)
	}
}

func TestLocate_AfternoonFindsPMBatch(t *testing.T) {
	cam := t.TempDir()
	// 18:00 − 6h is noon, which already belongs to the PM window.
	now := time.Date(2024, 1, 15, 18, 0, 0, 0, time.Local)
	batchDir := filepath.Join(cam, "20240115PM")
	if err := os.Mkdir(batchDir, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(cam, now)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != batchDir {
		t.Errorf("Locate = %q, want %q", got, batchDir)
	}
}

func TestLocate_Missing(t *testing.T) {
	cam := t.TempDir()
	_, err := Locate(cam, time.Date(2024, 1, 15, 18, 0, 0, 0, time.Local))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Locate on empty camera dir: err = %v, want ErrNotFound", err)
	}
}

func TestLocate_FileNotDirectory(t *testing.T) {
	cam := t.TempDir()
	now := time.Date(2024, 1, 15, 18, 0, 0, 0, time.Local)
	if err := os.WriteFile(filepath.Join(cam, Name(now)), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Locate(cam, now)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Locate on plain file: err = %v, want ErrNotFound", err)
	}
}
