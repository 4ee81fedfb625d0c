// Package edf reads EDF (European Data Format) recordings.
//
// EDF stores a fixed 256-byte ASCII header, one 256-byte ASCII block per
// signal, and then data records of 16-bit little-endian samples. The reader
// loads the whole file, rescales digital values to physical units, and
// reassembles the per-record chunks into continuous channel rows.
package edf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

const headerSize = 256

var (
	errTruncatedHeader = errors.New("edf: truncated header")
	errTruncatedData   = errors.New("edf: truncated data record")
)

type signalHeader struct {
	label            string
	physMin, physMax float64
	digMin, digMax   float64
	samplesPerRecord int
}

// Read loads an EDF file into a Series. Channels whose label mentions EOG
// are tagged [series.RoleArtifactRef]. All signals must share one sample
// rate; mixed-rate files are rejected.
func Read(path string) (*series.Series, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("edf: %w", err)
	}
	if len(raw) < headerSize {
		return nil, errTruncatedHeader
	}

	h := headerFields(raw[:headerSize])

	nRecords, err := strconv.Atoi(h.records)
	if err != nil || nRecords < 0 {
		return nil, fmt.Errorf("edf: bad record count %q", h.records)
	}
	recordDur, err := strconv.ParseFloat(h.duration, 64)
	if err != nil || recordDur <= 0 {
		return nil, fmt.Errorf("edf: bad record duration %q", h.duration)
	}
	nSignals, err := strconv.Atoi(h.signals)
	if err != nil || nSignals <= 0 {
		return nil, fmt.Errorf("edf: bad signal count %q", h.signals)
	}

	sigHeaderEnd := headerSize + nSignals*headerSize
	if len(raw) < sigHeaderEnd {
		return nil, errTruncatedHeader
	}

	sigs, err := signalHeaders(raw[headerSize:sigHeaderEnd], nSignals)
	if err != nil {
		return nil, err
	}

	perRecord := sigs[0].samplesPerRecord
	for _, sig := range sigs {
		if sig.samplesPerRecord != perRecord {
			return nil, fmt.Errorf("edf: mixed sample rates (%d vs %d samples/record)", sig.samplesPerRecord, perRecord)
		}
	}
	rate := float64(perRecord) / recordDur

	channels := make([]series.Channel, nSignals)
	for i, sig := range sigs {
		role := series.RoleSignal
		if strings.Contains(strings.ToUpper(sig.label), "EOG") {
			role = series.RoleArtifactRef
		}
		channels[i] = series.Channel{Name: sig.label, Role: role}
	}

	data, err := decodeRecords(raw[sigHeaderEnd:], sigs, nRecords)
	if err != nil {
		return nil, err
	}

	s, err := series.New(channels, rate, data)
	if err != nil {
		return nil, fmt.Errorf("edf: %w", err)
	}
	if t, ok := parseStart(h.startDate, h.startTime); ok {
		s.SetMeasDate(t)
	}
	return s, nil
}

type header struct {
	startDate string
	startTime string
	records   string
	duration  string
	signals   string
}

// headerFields slices the fixed-width ASCII fields out of the main header.
func headerFields(b []byte) header {
	field := func(off, n int) string {
		return strings.TrimSpace(string(b[off : off+n]))
	}
	return header{
		startDate: field(168, 8),
		startTime: field(176, 8),
		records:   field(236, 8),
		duration:  field(244, 8),
		signals:   field(252, 4),
	}
}

// signalHeaders parses the per-signal header block. Fields of one kind are
// stored contiguously for all signals, not interleaved per signal.
func signalHeaders(b []byte, n int) ([]signalHeader, error) {
	field := func(off, width, i int) string {
		start := off*n + i*width
		return strings.TrimSpace(string(b[start : start+width]))
	}

	sigs := make([]signalHeader, n)
	for i := range n {
		sig := signalHeader{label: field(0, 16, i)}

		var err error
		parse := func(dst *float64, off, width int, what string) {
			if err != nil {
				return
			}
			v, perr := strconv.ParseFloat(field(off, width, i), 64)
			if perr != nil {
				err = fmt.Errorf("edf: signal %d: bad %s", i, what)
				return
			}
			*dst = v
		}

		// Offsets are cumulative widths of the preceding field kinds:
		// label 16, transducer 80, dimension 8, then the four ranges.
		parse(&sig.physMin, 16+80+8, 8, "physical minimum")
		parse(&sig.physMax, 16+80+8+8, 8, "physical maximum")
		parse(&sig.digMin, 16+80+8+16, 8, "digital minimum")
		parse(&sig.digMax, 16+80+8+24, 8, "digital maximum")
		if err != nil {
			return nil, err
		}
		if sig.digMax == sig.digMin {
			return nil, fmt.Errorf("edf: signal %d: degenerate digital range", i)
		}

		spr, perr := strconv.Atoi(field(16+80+8+32+80, 8, i))
		if perr != nil || spr <= 0 {
			return nil, fmt.Errorf("edf: signal %d: bad samples per record", i)
		}
		sig.samplesPerRecord = spr

		sigs[i] = sig
	}
	return sigs, nil
}

// decodeRecords rescales 16-bit digital samples to physical units and joins
// the record-interleaved chunks into continuous rows.
func decodeRecords(b []byte, sigs []signalHeader, nRecords int) ([][]float64, error) {
	perRecord := 0
	for _, sig := range sigs {
		perRecord += sig.samplesPerRecord
	}
	if len(b) < nRecords*perRecord*2 {
		return nil, errTruncatedData
	}

	data := make([][]float64, len(sigs))
	for i, sig := range sigs {
		data[i] = make([]float64, 0, nRecords*sig.samplesPerRecord)
	}

	off := 0
	for range nRecords {
		for i, sig := range sigs {
			scale := (sig.physMax - sig.physMin) / (sig.digMax - sig.digMin)
			for range sig.samplesPerRecord {
				d := int16(binary.LittleEndian.Uint16(b[off:]))
				off += 2
				data[i] = append(data[i], (float64(d)-sig.digMin)*scale+sig.physMin)
			}
		}
	}
	return data, nil
}

// parseStart decodes the dd.mm.yy / hh.mm.ss start fields. EDF two-digit
// years 85-99 belong to the 1900s and 00-84 to the 2000s.
func parseStart(date, clock string) (time.Time, bool) {
	t, err := time.Parse("02.01.06 15.04.05", date+" "+clock)
	if err != nil {
		return time.Time{}, false
	}
	// time.Parse pivots two-digit years at 69; move 69-84 up a century.
	if yy := t.Year() % 100; yy >= 69 && yy < 85 {
		t = t.AddDate(100, 0, 0)
	}
	return t.UTC(), true
}
