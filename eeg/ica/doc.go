// Package ica fits a blind source separation model to a multichannel
// series using the FastICA fixed-point algorithm.
//
// The decomposition whitens the centered data through an eigendecomposition
// of the channel covariance, then iterates a tanh-contrast update with
// symmetric decorrelation until the unmixing estimate stops rotating or the
// iteration cap is hit. The fit is deterministic for a fixed seed.
//
// The effective component count is min(requested, channel count) — a model
// can never have more components than channels.
package ica
