// Package filter implements the zero-phase bandpass stage.
//
// The filter is a linear-phase windowed-sinc FIR bandpass. Each channel is
// filtered independently against mirror-padded edges, and the group delay of
// (N-1)/2 samples is compensated so the output is zero-phase and exactly the
// length of the input. Application is deterministic: the same input and spec
// always produce the same output.
package filter
