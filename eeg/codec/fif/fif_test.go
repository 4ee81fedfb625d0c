package fif

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

func continuousSeries(t *testing.T) *series.Series {
	t.Helper()

	channels := []series.Channel{
		{Name: "Fp1"},
		{Name: "EOG 061", Role: series.RoleArtifactRef},
	}
	data := [][]float64{
		{0.5, -1.25, 3e-7, math.Pi},
		{1, 2, 3, 4},
	}
	s, err := series.New(channels, 250, data)
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}
	return s
}

func TestContinuousRoundTrip(t *testing.T) {
	s := continuousSeries(t)
	s.SetMeasDate(time.Date(2023, 4, 1, 12, 30, 0, 0, time.UTC))

	path := filepath.Join(t.TempDir(), "out.fif")
	if err := Write(path, series.Continuous(s)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if r.Kind() != series.KindContinuous {
		t.Fatalf("kind=%d, want continuous", r.Kind())
	}

	got := r.Series()
	if len(got.Channels) != len(s.Channels) {
		t.Fatalf("channels=%d, want %d", len(got.Channels), len(s.Channels))
	}
	for i, ch := range got.Channels {
		if ch != s.Channels[i] {
			t.Fatalf("channel %d = %+v, want %+v", i, ch, s.Channels[i])
		}
	}
	if got.Rate != s.Rate {
		t.Fatalf("rate=%g, want %g", got.Rate, s.Rate)
	}
	if got.MeasDate == nil || !got.MeasDate.Equal(*s.MeasDate) {
		t.Fatalf("meas date %v, want %v", got.MeasDate, s.MeasDate)
	}
	for c := range got.Data {
		for i := range got.Data[c] {
			if got.Data[c][i] != s.Data[c][i] {
				t.Fatalf("data[%d][%d]=%g, want %g", c, i, got.Data[c][i], s.Data[c][i])
			}
		}
	}
}

func TestClearedMeasDateStaysCleared(t *testing.T) {
	s := continuousSeries(t)
	s.ClearMeasDate()

	path := filepath.Join(t.TempDir(), "out.fif")
	if err := Write(path, series.Continuous(s)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	r, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if r.Series().MeasDate != nil {
		t.Fatalf("meas date %v, want nil", r.Series().MeasDate)
	}
}

func TestEpochedRoundTrip(t *testing.T) {
	s := continuousSeries(t)
	e, err := series.Segment(s, 2.0/250.0) // 4 samples cut into 2-sample windows
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.fif")
	if err := Write(path, series.Epoched(e)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if r.Kind() != series.KindEpoched {
		t.Fatalf("kind=%d, want epoched", r.Kind())
	}

	got := r.Epochs()
	if len(got.Windows) != len(e.Windows) {
		t.Fatalf("windows=%d, want %d", len(got.Windows), len(e.Windows))
	}
	if got.WindowSamples() != e.WindowSamples() {
		t.Fatalf("window samples=%d, want %d", got.WindowSamples(), e.WindowSamples())
	}
	if got.Length != e.Length {
		t.Fatalf("length=%g, want %g", got.Length, e.Length)
	}
	for w := range got.Windows {
		for c := range got.Windows[w] {
			for i := range got.Windows[w][c] {
				if got.Windows[w][c][i] != e.Windows[w][c][i] {
					t.Fatalf("window %d channel %d sample %d differs", w, c, i)
				}
			}
		}
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.fif")
	if err := os.WriteFile(path, []byte("not a recording"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
