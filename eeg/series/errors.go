package series

import (
	"errors"
	"fmt"
)

var (
	errNoChannels    = errors.New("series must have at least one channel")
	errRaggedMatrix  = errors.New("all channels must have the same sample count")
	errShapeMismatch = errors.New("data row count must equal channel count")
)

func validateRate(rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %f", rate)
	}
	return nil
}

func validateWindow(length float64) error {
	if length <= 0 {
		return fmt.Errorf("epoch length must be > 0: %f", length)
	}
	return nil
}
