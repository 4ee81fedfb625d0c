// Package fif implements the module's structured recording codec: a
// little-endian tagged binary format that round-trips a series or an epoched
// result with full channel metadata and sample rate.
//
// Layout: 4-byte magic "EEGF", uint16 version, uint8 kind, float64 sample
// rate, an optional measurement date, the channel table, then the shape and
// raw float64 sample data. Epoched files additionally store the window
// length and window count.
package fif

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

const version = 1

var magic = [4]byte{'E', 'E', 'G', 'F'}

var (
	errBadMagic   = errors.New("fif: bad magic")
	errBadVersion = errors.New("fif: unsupported version")
	errBadKind    = errors.New("fif: unknown result kind")
)

const (
	kindContinuous = 0
	kindEpoched    = 1
)

// Write serializes a result to path, overwriting any existing file.
func Write(path string, r series.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fif: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := encode(w, r); err != nil {
		f.Close()
		return fmt.Errorf("fif: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("fif: %w", err)
	}
	return f.Close()
}

// Read deserializes a result written by [Write].
func Read(path string) (series.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return series.Result{}, fmt.Errorf("fif: %w", err)
	}
	defer f.Close()

	r, err := decode(bufio.NewReader(f))
	if err != nil {
		return series.Result{}, err
	}
	return r, nil
}

func encode(w io.Writer, r series.Result) error {
	var (
		kind     uint8
		channels []series.Channel
		rate     float64
		measDate *time.Time
	)
	switch r.Kind() {
	case series.KindContinuous:
		s := r.Series()
		kind, channels, rate, measDate = kindContinuous, s.Channels, s.Rate, s.MeasDate
	case series.KindEpoched:
		e := r.Epochs()
		kind, channels, rate = kindEpoched, e.Channels, e.Rate
	default:
		return errBadKind
	}

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := writeAll(w, uint16(version), kind, rate); err != nil {
		return err
	}

	// Measurement date, one presence byte then unix nanoseconds.
	if measDate != nil {
		if err := writeAll(w, uint8(1), measDate.UnixNano()); err != nil {
			return err
		}
	} else if err := writeAll(w, uint8(0)); err != nil {
		return err
	}

	if err := writeAll(w, uint32(len(channels))); err != nil {
		return err
	}
	for _, ch := range channels {
		if err := writeString(w, ch.Name); err != nil {
			return err
		}
		if err := writeAll(w, uint8(ch.Role)); err != nil {
			return err
		}
	}

	switch r.Kind() {
	case series.KindContinuous:
		s := r.Series()
		if err := writeAll(w, uint64(s.Samples())); err != nil {
			return err
		}
		for _, row := range s.Data {
			if err := writeFloats(w, row); err != nil {
				return err
			}
		}
	case series.KindEpoched:
		e := r.Epochs()
		if err := writeAll(w, e.Length, uint32(len(e.Windows)), uint64(e.WindowSamples())); err != nil {
			return err
		}
		for _, win := range e.Windows {
			for _, row := range win {
				if err := writeFloats(w, row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func decode(r io.Reader) (series.Result, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return series.Result{}, fmt.Errorf("fif: %w", err)
	}
	if gotMagic != magic {
		return series.Result{}, errBadMagic
	}

	var (
		ver  uint16
		kind uint8
		rate float64
	)
	if err := readAll(r, &ver, &kind, &rate); err != nil {
		return series.Result{}, err
	}
	if ver != version {
		return series.Result{}, fmt.Errorf("%w: %d", errBadVersion, ver)
	}

	var datePresent uint8
	if err := readAll(r, &datePresent); err != nil {
		return series.Result{}, err
	}
	var measDate *time.Time
	if datePresent != 0 {
		var ns int64
		if err := readAll(r, &ns); err != nil {
			return series.Result{}, err
		}
		t := time.Unix(0, ns).UTC()
		measDate = &t
	}

	var nChan uint32
	if err := readAll(r, &nChan); err != nil {
		return series.Result{}, err
	}
	channels := make([]series.Channel, nChan)
	for i := range channels {
		name, err := readString(r)
		if err != nil {
			return series.Result{}, err
		}
		var role uint8
		if err := readAll(r, &role); err != nil {
			return series.Result{}, err
		}
		channels[i] = series.Channel{Name: name, Role: series.Role(role)}
	}

	switch kind {
	case kindContinuous:
		var nSamp uint64
		if err := readAll(r, &nSamp); err != nil {
			return series.Result{}, err
		}
		data := make([][]float64, nChan)
		for i := range data {
			row, err := readFloats(r, int(nSamp))
			if err != nil {
				return series.Result{}, err
			}
			data[i] = row
		}
		s, err := series.New(channels, rate, data)
		if err != nil {
			return series.Result{}, fmt.Errorf("fif: %w", err)
		}
		s.MeasDate = measDate
		return series.Continuous(s), nil

	case kindEpoched:
		var (
			length  float64
			nWin    uint32
			winSamp uint64
		)
		if err := readAll(r, &length, &nWin, &winSamp); err != nil {
			return series.Result{}, err
		}
		windows := make([][][]float64, nWin)
		for wi := range windows {
			win := make([][]float64, nChan)
			for c := range win {
				row, err := readFloats(r, int(winSamp))
				if err != nil {
					return series.Result{}, err
				}
				win[c] = row
			}
			windows[wi] = win
		}
		e := &series.Epochs{Channels: channels, Rate: rate, Length: length, Windows: windows}
		return series.Epoched(e), nil

	default:
		return series.Result{}, errBadKind
	}
}

func writeAll(w io.Writer, values ...any) error {
	for _, v := range values {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readAll(r io.Reader, dsts ...any) error {
	for _, dst := range dsts {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return fmt.Errorf("fif: %w", err)
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := writeAll(w, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := readAll(r, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("fif: %w", err)
	}
	return string(buf), nil
}

func writeFloats(w io.Writer, row []float64) error {
	buf := make([]byte, 8*len(row))
	for i, v := range row {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	_, err := w.Write(buf)
	return err
}

func readFloats(r io.Reader, n int) ([]float64, error) {
	buf := make([]byte, 8*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("fif: %w", err)
	}
	row := make([]float64, n)
	for i := range row {
		row[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return row, nil
}
