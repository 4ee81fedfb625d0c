package reconstruct

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/Metanome/eeg-preprocppl/eeg/artifact"
	"github.com/Metanome/eeg-preprocppl/eeg/ica"
	"github.com/Metanome/eeg-preprocppl/eeg/series"
	"github.com/Metanome/eeg-preprocppl/eeg/signal"
)

func artifactRecording(t *testing.T) *series.Series {
	t.Helper()

	const (
		rate    = 250.0
		samples = 2500
	)
	gen := signal.NewGenerator(rate)

	blink, err := gen.Sine(3, 50, samples)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	freqs := []float64{10, 7, 12, 9}
	names := []string{"Fp1", "Fp2", "C3", "C4"}
	channels := make([]series.Channel, 0, 5)
	rows := make([][]float64, 0, 5)
	for i, f := range freqs {
		tone, err := gen.Sine(f, 10, samples)
		if err != nil {
			t.Fatalf("Sine: %v", err)
		}
		noise, err := signal.NewGenerator(rate, signal.WithSeed(int64(40+i))).WhiteNoise(1, samples)
		if err != nil {
			t.Fatalf("WhiteNoise: %v", err)
		}
		row, err := signal.Mix(tone, noise)
		if err != nil {
			t.Fatalf("Mix: %v", err)
		}
		if i == 0 {
			row, err = signal.Mix(row, blink)
			if err != nil {
				t.Fatalf("Mix: %v", err)
			}
		}
		channels = append(channels, series.Channel{Name: names[i]})
		rows = append(rows, row)
	}

	refNoise, err := signal.NewGenerator(rate, signal.WithSeed(99)).WhiteNoise(1, samples)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}
	ref, err := signal.Mix(blink, refNoise)
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}
	channels = append(channels, series.Channel{Name: "EOG 061", Role: series.RoleArtifactRef})
	rows = append(rows, ref)

	s, err := series.New(channels, rate, rows)
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}
	return s
}

func TestEmptyExcludeIsIdentity(t *testing.T) {
	s := artifactRecording(t)
	model, err := ica.NewDecomposer().Fit(s)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	out, err := Apply(s, model, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(out.Channels) != len(s.Channels) || out.Rate != s.Rate {
		t.Fatal("metadata changed")
	}
	for c := range s.Data {
		for i := range s.Data[c] {
			if math.Abs(out.Data[c][i]-s.Data[c][i]) > 1e-9 {
				t.Fatalf("data[%d][%d] drifted: %g vs %g", c, i, out.Data[c][i], s.Data[c][i])
			}
		}
	}

	// The output is a fresh series, not a view of the input.
	out.Data[0][0] = math.Inf(1)
	if math.IsInf(s.Data[0][0], 1) {
		t.Fatal("output aliases input data")
	}
}

func TestExcludeIndexValidation(t *testing.T) {
	s := artifactRecording(t)
	model, err := ica.NewDecomposer().Fit(s)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if _, err := Apply(s, model, []int{-1}); err == nil {
		t.Fatal("expected error for negative index")
	}
	if _, err := Apply(s, model, []int{model.Effective}); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestRemovalReducesReferenceCorrelation(t *testing.T) {
	s := artifactRecording(t)
	model, err := ica.NewDecomposer().Fit(s)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	d := artifact.Detect(s, model)
	if d.Outcome() != artifact.OutcomeDetected || len(d.ExcludeSet()) == 0 {
		t.Fatalf("detection did not flag the blink: outcome=%d exclude=%v", d.Outcome(), d.ExcludeSet())
	}

	cleaned, err := Apply(s, model, d.ExcludeSet())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	ref := s.Data[s.ArtifactRefs()[0]]
	before := math.Abs(stat.Correlation(s.Data[0], ref, nil))
	after := math.Abs(stat.Correlation(cleaned.Data[0], ref, nil))

	if after >= before {
		t.Fatalf("correlation with reference did not drop: %g -> %g", before, after)
	}
	if after > 0.3 {
		t.Fatalf("residual correlation %g, want <= 0.3", after)
	}
}
