package signal

import (
	"math"
	"testing"

	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

func TestSine(t *testing.T) {
	g := NewGenerator(100)
	s, err := g.Sine(25, 2, 8)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}
	// 25 Hz at 100 Hz sampling is a quarter period per sample: 0, 2, 0, -2, ...
	want := []float64{0, 2, 0, -2, 0, 2, 0, -2}
	for i := range want {
		if math.Abs(s[i]-want[i]) > 1e-9 {
			t.Fatalf("sample %d = %g, want %g", i, s[i], want[i])
		}
	}

	if _, err := g.Sine(25, 2, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	a, err := NewGenerator(100, WithSeed(7)).WhiteNoise(1, 64)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}
	b, err := NewGenerator(100, WithSeed(7)).WhiteNoise(1, 64)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs across identically seeded generators", i)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("sample %d = %g outside [-1, 1]", i, a[i])
		}
	}

	c, err := NewGenerator(100, WithSeed(8)).WhiteNoise(1, 64)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestMix(t *testing.T) {
	got, err := Mix([]float64{1, 2, 3}, []float64{10, 20, 30})
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}
	want := []float64{11, 22, 33}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %g, want %g", i, got[i], want[i])
		}
	}

	if _, err := Mix(); err == nil {
		t.Fatal("expected error for no components")
	}
	if _, err := Mix([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestRecording(t *testing.T) {
	g := NewGenerator(250)
	tone, err := g.Sine(10, 1, 100)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}
	noise, err := g.WhiteNoise(1, 100)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}

	s, err := g.Recording([]string{"Fp1", "Fp2"}, [][]float64{tone, noise})
	if err != nil {
		t.Fatalf("Recording: %v", err)
	}
	if s.Rate != 250 || len(s.Channels) != 2 || s.Samples() != 100 {
		t.Fatalf("recording %d channels x %d samples at %g Hz", len(s.Channels), s.Samples(), s.Rate)
	}
	for _, ch := range s.Channels {
		if ch.Role != series.RoleSignal {
			t.Fatalf("channel %q has role %d, want signal", ch.Name, ch.Role)
		}
	}

	if _, err := g.Recording([]string{"Fp1"}, [][]float64{tone, noise}); err == nil {
		t.Fatal("expected error for name/row count mismatch")
	}
}
