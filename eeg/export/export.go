// Package export serializes a cleaned result to its two on-disk forms: the
// structured re-loadable codec and a flat delimited-text matrix.
//
// The exporter branches explicitly on the result kind. Continuous results
// dump the full channels-by-samples matrix; epoched results dump the
// sample-wise mean across windows while the structured file keeps the full
// windowed representation. The acquisition timestamp is always cleared
// before writing so downstream readers never see an epoch-relative date.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/Metanome/eeg-preprocppl/eeg/codec/fif"
	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

// Write serializes the result to both paths. Either write failing fails the
// whole export.
func Write(r series.Result, structuredPath, textPath string) error {
	var matrix [][]float64

	switch r.Kind() {
	case series.KindContinuous:
		s := r.Series().Clone()
		s.ClearMeasDate()
		r = series.Continuous(s)
		matrix = s.Data
	case series.KindEpoched:
		matrix = r.Epochs().Mean()
	default:
		return fmt.Errorf("export: unknown result kind %d", r.Kind())
	}

	if err := fif.Write(structuredPath, r); err != nil {
		return fmt.Errorf("export: structured: %w", err)
	}
	if err := writeMatrix(textPath, matrix); err != nil {
		return fmt.Errorf("export: text: %w", err)
	}
	return nil
}

// writeMatrix dumps a channels-by-samples matrix as comma-delimited text,
// one row per channel.
func writeMatrix(path string, matrix [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	buf := bufio.NewWriter(f)
	w := csv.NewWriter(buf)
	record := make([]string, 0)
	for _, row := range matrix {
		record = record[:0]
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
