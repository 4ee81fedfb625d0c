package ica

// Defaults for the decomposer configuration.
const (
	DefaultComponents = 15
	DefaultSeed       = 97
	DefaultTolerance  = 1e-4
)

// Decomposer holds the fit configuration. Zero-value fields are replaced by
// defaults in [NewDecomposer].
type Decomposer struct {
	components int
	seed       int64
	maxIter    int // 0 selects the adaptive cap
	tol        float64
}

// Option configures a Decomposer.
type Option func(*Decomposer)

// WithComponents sets the requested component count. The effective count is
// still capped at the channel count during Fit.
func WithComponents(n int) Option {
	return func(d *Decomposer) {
		if n > 0 {
			d.components = n
		}
	}
}

// WithSeed sets the deterministic seed for the unmixing initialization.
func WithSeed(seed int64) Option {
	return func(d *Decomposer) {
		d.seed = seed
	}
}

// WithMaxIter overrides the adaptive iteration cap.
func WithMaxIter(n int) Option {
	return func(d *Decomposer) {
		if n > 0 {
			d.maxIter = n
		}
	}
}

// WithTolerance sets the convergence tolerance on the unmixing rotation.
func WithTolerance(tol float64) Option {
	return func(d *Decomposer) {
		if tol > 0 {
			d.tol = tol
		}
	}
}

// NewDecomposer creates a decomposer with defaults applied.
func NewDecomposer(opts ...Option) *Decomposer {
	d := &Decomposer{
		components: DefaultComponents,
		seed:       DefaultSeed,
		tol:        DefaultTolerance,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// iterationCap returns the explicit cap, or an adaptive one scaled to the
// effective component count.
func (d *Decomposer) iterationCap(effective int) int {
	if d.maxIter > 0 {
		return d.maxIter
	}
	cap := 10 * effective
	if cap < 200 {
		cap = 200
	}
	return cap
}
