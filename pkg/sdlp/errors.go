package sdlp

import (
	"errors"
	"fmt"
	"math/big"
)

// Error kinds returned by the solver. Callers match them with errors.Is.
var (
	ErrNotSingular          = errors.New("sdlp: curve is not singular modulo p")
	ErrPointNotOnCurve      = errors.New("sdlp: point is not on the curve")
	ErrZeroNorm             = errors.New("sdlp: extension element has zero norm")
	ErrSingularPointMapped  = errors.New("sdlp: cannot map the singular point")
	ErrNotFound             = errors.New("sdlp: discrete logarithm not found")
	ErrPartialResult        = errors.New("sdlp: combined residue does not cover the scalar range")
	ErrUnsupportedPrime     = errors.New("sdlp: modulus must be a prime greater than 3")
	ErrSearchTooLarge       = errors.New("sdlp: search space exceeds the configured table limit")
	ErrNoUsablePrime        = errors.New("sdlp: no candidate prime produced a result")
	ErrInconsistentResidues = errors.New("sdlp: residues are inconsistent")
	ErrInvalidInput         = errors.New("sdlp: invalid input")
)

// PrimeError attributes a failure to one candidate prime.
// A multi-prime sweep collects these instead of aborting.
type PrimeError struct {
	P     *big.Int
	Stage string
	Err   error
}

func (e *PrimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prime %s: %s: %v", e.P, e.Stage, e.Err)
	}
	return fmt.Sprintf("prime %s: %s", e.P, e.Stage)
}

func (e *PrimeError) Unwrap() error {
	return e.Err
}

// NewPrimeError creates a new PrimeError.
func NewPrimeError(p *big.Int, stage string, err error) *PrimeError {
	return &PrimeError{
		P:     p,
		Stage: stage,
		Err:   err,
	}
}

// PartialResultError reports that a CRT combination only determines the
// scalar modulo Modulus, which does not exceed the scalar bound Bound.
type PartialResultError struct {
	Modulus *big.Int
	Bound   *big.Int
}

func (e *PartialResultError) Error() string {
	return fmt.Sprintf("%v: modulus %s does not exceed bound %s", ErrPartialResult, e.Modulus, e.Bound)
}

func (e *PartialResultError) Unwrap() error {
	return ErrPartialResult
}
