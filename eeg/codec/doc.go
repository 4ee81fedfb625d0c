// Package codec reads recording files into the canonical series
// representation.
//
// Exactly two input formats are recognized, dispatched on file extension:
// EDF (European Data Format) and the module's own FIF tagged binary format.
// Any other extension fails with [ErrUnsupportedFormat] before the file is
// opened. Files are loaded whole; there is no streaming path.
package codec
