// Package series defines the canonical multichannel time-series
// representation shared by every pipeline stage.
//
// A [Series] is an ordered set of named channels sampled at one common rate,
// with the sample data held as a channels-by-samples matrix. Stages never
// mutate a Series they received; each stage derives a fresh value via
// [Series.Clone] or by constructing a new one.
//
// [Epochs] is the fixed-window segmentation of a Series, and [Result] is the
// tagged continuous-or-epoched variant handed to the exporter.
package series
