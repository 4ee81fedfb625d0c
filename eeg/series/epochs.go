package series

import "fmt"

// Epochs is a Series cut into fixed-length, non-overlapping windows starting
// at each window boundary. No baseline correction is applied.
type Epochs struct {
	Channels []Channel
	Rate     float64

	// Length is the window length in seconds.
	Length float64

	// Windows is laid out window-by-channel-by-sample.
	Windows [][][]float64
}

// Segment cuts s into non-overlapping windows of length seconds. A trailing
// partial window is dropped. At least one full window must fit.
func Segment(s *Series, length float64) (*Epochs, error) {
	if err := validateWindow(length); err != nil {
		return nil, err
	}

	winSamples := int(length * s.Rate)
	if winSamples <= 0 || winSamples > s.Samples() {
		return nil, fmt.Errorf("epoch length %gs does not fit a %gs recording", length, s.Duration())
	}

	nWin := s.Samples() / winSamples
	windows := make([][][]float64, nWin)
	for w := range nWin {
		start := w * winSamples
		win := make([][]float64, len(s.Data))
		for c, row := range s.Data {
			win[c] = make([]float64, winSamples)
			copy(win[c], row[start:start+winSamples])
		}
		windows[w] = win
	}

	return &Epochs{
		Channels: append([]Channel(nil), s.Channels...),
		Rate:     s.Rate,
		Length:   length,
		Windows:  windows,
	}, nil
}

// WindowSamples returns the per-window sample count.
func (e *Epochs) WindowSamples() int {
	if len(e.Windows) == 0 || len(e.Windows[0]) == 0 {
		return 0
	}
	return len(e.Windows[0][0])
}

// Mean returns the sample-wise mean across all windows, shaped
// channels-by-window-samples.
func (e *Epochs) Mean() [][]float64 {
	nChan := len(e.Channels)
	nSamp := e.WindowSamples()

	mean := make([][]float64, nChan)
	for c := range mean {
		mean[c] = make([]float64, nSamp)
	}
	if len(e.Windows) == 0 {
		return mean
	}

	for _, win := range e.Windows {
		for c, row := range win {
			for i, v := range row {
				mean[c][i] += v
			}
		}
	}

	scale := 1 / float64(len(e.Windows))
	for c := range mean {
		for i := range mean[c] {
			mean[c][i] *= scale
		}
	}
	return mean
}
