// Package viz renders self-contained interactive HTML plots of recordings
// and decomposed sources.
//
// The three renderers are stateless and independent: raw signal, cleaned
// signal, and component sources. Each writes exactly one HTML artifact;
// validating that the artifact exists and has a plausible size is the
// caller's concern.
package viz

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Metanome/eeg-preprocppl/eeg/ica"
	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

const (
	// Signal plots show at most this many channels over this many seconds,
	// stacked with a fixed vertical step.
	signalChannels = 5
	signalSeconds  = 10.0
	signalOffset   = 100.0

	// Component plots show at most this many sources with a wider step.
	componentCount  = 10
	componentOffset = 200.0
)

// RenderRaw plots the first channels of an unprocessed series against time.
func RenderRaw(s *series.Series, path string) error {
	return renderSignal(s, "Raw EEG Signal (first 5 channels, 10s)", path)
}

// RenderCleaned plots the cleaned series with the same framing as
// [RenderRaw].
func RenderCleaned(s *series.Series, path string) error {
	return renderSignal(s, "Cleaned EEG Signal (first 5 channels, 10s)", path)
}

func renderSignal(s *series.Series, title, path string) error {
	nChan := min(signalChannels, len(s.Channels))
	nSamp := min(int(signalSeconds*s.Rate), s.Samples())

	x := make([]string, nSamp)
	for i := range x {
		x[i] = fmt.Sprintf("%.3f", float64(i)/s.Rate)
	}

	line := newLine(title, "Time (s)")
	line.SetXAxis(x)
	for c := range nChan {
		points := make([]opts.LineData, nSamp)
		offset := float64(c) * signalOffset
		for i := range points {
			points[i] = opts.LineData{Value: s.Data[c][i] + offset}
		}
		line.AddSeries(s.Channels[c].Name, points)
	}

	return render(line, path)
}

// RenderComponents plots the first decomposed source time series against
// sample index.
func RenderComponents(model *ica.Model, s *series.Series, path string) error {
	sources, err := model.SourceRows(s)
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}

	n := min(componentCount, len(sources))
	nSamp := 0
	if n > 0 {
		nSamp = len(sources[0])
	}

	x := make([]int, nSamp)
	for i := range x {
		x[i] = i
	}

	line := newLine("ICA Components (first 10)", "Samples")
	line.SetXAxis(x)
	for c := range n {
		points := make([]opts.LineData, nSamp)
		offset := float64(c) * componentOffset
		for i := range points {
			points[i] = opts.LineData{Value: sources[c][i] + offset}
		}
		line.AddSeries(fmt.Sprintf("ICA %d", c+1), points)
	}

	return render(line, path)
}

func newLine(title, xName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Amplitude + offset"}),
	)
	return line
}

func render(line *charts.Line, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	if err := line.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("viz: %w", err)
	}
	return f.Close()
}
