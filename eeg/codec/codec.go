package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Metanome/eeg-preprocppl/eeg/codec/edf"
	"github.com/Metanome/eeg-preprocppl/eeg/codec/fif"
	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

// ErrUnsupportedFormat reports an input extension outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported recording format")

// Format identifies a supported input codec.
type Format int

const (
	FormatEDF Format = iota
	FormatFIF
)

// String returns the conventional lowercase extension for the format.
func (f Format) String() string {
	switch f {
	case FormatEDF:
		return "edf"
	case FormatFIF:
		return "fif"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Source describes the origin of a recording. It is created once per read
// and never modified afterwards.
type Source struct {
	Path   string
	Format Format

	// MeasDate is the acquisition timestamp from file metadata, nil when
	// the file carries none.
	MeasDate *time.Time
}

// Detect maps a file path to its format by extension, case-insensitively.
func Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".edf":
		return FormatEDF, nil
	case ".fif":
		return FormatFIF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Read loads a recording into a Series. The format is detected from the
// extension before any file access; unsupported extensions fail hard with
// no partial result.
func Read(path string) (*Source, *series.Series, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, nil, err
	}

	var s *series.Series
	switch format {
	case FormatEDF:
		s, err = edf.Read(path)
	case FormatFIF:
		var r series.Result
		r, err = fif.Read(path)
		if err == nil {
			s = flatten(r)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	src := &Source{Path: path, Format: format, MeasDate: s.MeasDate}
	return src, s, nil
}

// flatten turns an epoched result back into a continuous series by
// concatenating its windows in order. Continuous results pass through.
func flatten(r series.Result) *series.Series {
	if r.Kind() == series.KindContinuous {
		return r.Series()
	}

	e := r.Epochs()
	nChan := len(e.Channels)
	nSamp := e.WindowSamples() * len(e.Windows)

	data := make([][]float64, nChan)
	for c := range data {
		data[c] = make([]float64, 0, nSamp)
	}
	for _, win := range e.Windows {
		for c, row := range win {
			data[c] = append(data[c], row...)
		}
	}

	s := &series.Series{
		Channels: append([]series.Channel(nil), e.Channels...),
		Rate:     e.Rate,
		Data:     data,
	}
	return s
}
