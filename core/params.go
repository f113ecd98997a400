package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned for parameters that would produce an empty
// or NaN-filled cloud
var ErrInvalidParams = errors.New("invalid fractal parameters")

// Params controls point generation
type Params struct {
	Detail  int     // Angular resolution, grid is (Detail+1) x (Detail+1)
	Power   int     // Refinement iterations and exponent
	Scale   float64 // Uniform multiplier on final positions
	Bailout float64 // Magnitude that stops refinement early
}

// DefaultParams returns the constants the viewer ships with
func DefaultParams() Params {
	return Params{
		Detail:  100,
		Power:   8,
		Scale:   0.5,
		Bailout: 8,
	}
}

// Validate rejects out-of-range parameters. Power 0 is allowed and skips refinement.
func (p Params) Validate() error {
	if p.Detail < 1 {
		return fmt.Errorf("%w: detail must be >= 1, got %d", ErrInvalidParams, p.Detail)
	}
	if p.Power < 0 {
		return fmt.Errorf("%w: power must be >= 0, got %d", ErrInvalidParams, p.Power)
	}
	if !(p.Scale > 0) || math.IsInf(p.Scale, 0) {
		return fmt.Errorf("%w: scale must be a positive finite number, got %v", ErrInvalidParams, p.Scale)
	}
	if !(p.Bailout > 0) || math.IsInf(p.Bailout, 0) {
		return fmt.Errorf("%w: bailout must be a positive finite number, got %v", ErrInvalidParams, p.Bailout)
	}
	return nil
}

// PointCount returns (Detail+1)^2
func (p Params) PointCount() int {
	n := p.Detail + 1
	return n * n
}
