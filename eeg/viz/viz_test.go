package viz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Metanome/eeg-preprocppl/eeg/ica"
	"github.com/Metanome/eeg-preprocppl/eeg/series"
	"github.com/Metanome/eeg-preprocppl/eeg/signal"
)

// minArtifactSize is the smallest byte count a rendered plot may have before
// it is considered a silent failure.
const minArtifactSize = 2048

func testRecording(t *testing.T, nChan int) *series.Series {
	t.Helper()

	const (
		rate    = 250.0
		samples = 1000
	)
	names := make([]string, nChan)
	rows := make([][]float64, nChan)
	for c := range names {
		gen := signal.NewGenerator(rate, signal.WithSeed(int64(c+1)))
		tone, err := gen.Sine(float64(5+2*c), 10, samples)
		if err != nil {
			t.Fatalf("Sine: %v", err)
		}
		noise, err := gen.WhiteNoise(1, samples)
		if err != nil {
			t.Fatalf("WhiteNoise: %v", err)
		}
		row, err := signal.Mix(tone, noise)
		if err != nil {
			t.Fatalf("Mix: %v", err)
		}
		names[c] = string(rune('A' + c))
		rows[c] = row
	}

	s, err := signal.NewGenerator(rate).Recording(names, rows)
	if err != nil {
		t.Fatalf("Recording: %v", err)
	}
	return s
}

func checkArtifact(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() < minArtifactSize {
		t.Fatalf("artifact %s is %d bytes, want >= %d", path, info.Size(), minArtifactSize)
	}
}

func TestRenderRaw(t *testing.T) {
	s := testRecording(t, 3)
	path := filepath.Join(t.TempDir(), "raw.html")
	if err := RenderRaw(s, path); err != nil {
		t.Fatalf("RenderRaw: %v", err)
	}
	checkArtifact(t, path)
}

func TestRenderRawManyChannels(t *testing.T) {
	// More channels than the plot shows; the renderer caps at five.
	s := testRecording(t, 8)
	path := filepath.Join(t.TempDir(), "raw.html")
	if err := RenderRaw(s, path); err != nil {
		t.Fatalf("RenderRaw: %v", err)
	}
	checkArtifact(t, path)
}

func TestRenderCleaned(t *testing.T) {
	s := testRecording(t, 2)
	path := filepath.Join(t.TempDir(), "cleaned.html")
	if err := RenderCleaned(s, path); err != nil {
		t.Fatalf("RenderCleaned: %v", err)
	}
	checkArtifact(t, path)
}

func TestRenderComponents(t *testing.T) {
	s := testRecording(t, 3)
	model, err := ica.NewDecomposer(ica.WithComponents(3)).Fit(s)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	path := filepath.Join(t.TempDir(), "components.html")
	if err := RenderComponents(model, s, path); err != nil {
		t.Fatalf("RenderComponents: %v", err)
	}
	checkArtifact(t, path)
}

func TestRenderBadPath(t *testing.T) {
	s := testRecording(t, 1)
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "raw.html")
	if err := RenderRaw(s, path); err == nil {
		t.Fatal("expected IO error")
	}
}
