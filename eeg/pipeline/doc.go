// Package pipeline wires the preprocessing stages into the single batch
// entry point consumed by callers: read, bandpass filter, ICA fit, artifact
// detection, reconstruction, optional epoching, and export.
//
// A run is synchronous and single-threaded; every stage operates on data
// local to the request, so concurrent runs only need distinct file paths.
// Fatal errors (unsupported format, IO, non-convergence) surface as one
// wrapped error; artifact-detection failures degrade to an empty exclude set
// and the run continues.
package pipeline
