package series

import (
	"fmt"
	"time"
)

// Role tags how a channel participates in artifact detection.
type Role int

const (
	// RoleSignal marks an ordinary recording channel.
	RoleSignal Role = iota
	// RoleArtifactRef marks a reference channel (e.g. an eye-movement
	// electrode) used only to score decomposed components.
	RoleArtifactRef
)

// Channel describes one recorded channel.
type Channel struct {
	Name string
	Role Role
}

// Series is a multichannel recording: an ordered set of channels sampled at
// one common rate. Data is laid out channels-by-samples.
type Series struct {
	Channels []Channel
	Rate     float64
	Data     [][]float64

	// MeasDate is the acquisition timestamp, nil when unknown or cleared.
	MeasDate *time.Time
}

// New validates and constructs a Series. The data matrix must have one row
// per channel and equal row lengths; channel names must be unique.
func New(channels []Channel, rate float64, data [][]float64) (*Series, error) {
	if len(channels) == 0 {
		return nil, errNoChannels
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if len(data) != len(channels) {
		return nil, fmt.Errorf("%w: %d rows, %d channels", errShapeMismatch, len(data), len(channels))
	}

	seen := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		if _, dup := seen[ch.Name]; dup {
			return nil, fmt.Errorf("duplicate channel name %q", ch.Name)
		}
		seen[ch.Name] = struct{}{}
	}

	n := len(data[0])
	for i, row := range data {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", errRaggedMatrix, i, len(row), n)
		}
	}

	return &Series{Channels: channels, Rate: rate, Data: data}, nil
}

// Samples returns the per-channel sample count.
func (s *Series) Samples() int {
	if len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// Duration returns the recording length in seconds.
func (s *Series) Duration() float64 {
	return float64(s.Samples()) / s.Rate
}

// Names returns the channel names in order.
func (s *Series) Names() []string {
	names := make([]string, len(s.Channels))
	for i, ch := range s.Channels {
		names[i] = ch.Name
	}
	return names
}

// ArtifactRefs returns the indices of channels tagged [RoleArtifactRef].
func (s *Series) ArtifactRefs() []int {
	var refs []int
	for i, ch := range s.Channels {
		if ch.Role == RoleArtifactRef {
			refs = append(refs, i)
		}
	}
	return refs
}

// Clone returns a deep copy. The copy shares nothing with the receiver, so
// downstream stages can derive from it freely.
func (s *Series) Clone() *Series {
	channels := make([]Channel, len(s.Channels))
	copy(channels, s.Channels)

	data := make([][]float64, len(s.Data))
	for i, row := range s.Data {
		data[i] = make([]float64, len(row))
		copy(data[i], row)
	}

	out := &Series{Channels: channels, Rate: s.Rate, Data: data}
	if s.MeasDate != nil {
		t := *s.MeasDate
		out.MeasDate = &t
	}
	return out
}

// WithData returns a copy of the series metadata wrapped around a new data
// matrix. The matrix must match the channel count.
func (s *Series) WithData(data [][]float64) (*Series, error) {
	out, err := New(append([]Channel(nil), s.Channels...), s.Rate, data)
	if err != nil {
		return nil, err
	}
	if s.MeasDate != nil {
		t := *s.MeasDate
		out.MeasDate = &t
	}
	return out, nil
}

// ClearMeasDate drops the acquisition timestamp. Exports clear it to avoid
// downstream readers choking on epoch-relative dates.
func (s *Series) ClearMeasDate() {
	s.MeasDate = nil
}

// SetMeasDate records the acquisition timestamp.
func (s *Series) SetMeasDate(t time.Time) {
	s.MeasDate = &t
}
