package solver

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/jedisct1/dlog"

	"github.com/smallyu/go-sdlp/internal/crypto/crt"
	"github.com/smallyu/go-sdlp/internal/crypto/singular"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// SweepResult collects the per-prime outcomes of a sweep and their CRT
// combination.
type SweepResult struct {
	// Results holds one entry per prime that produced a verified residue,
	// in the order the primes were given.
	Results []*sdlp.DiscreteLogResult

	// Errors holds one *sdlp.PrimeError per prime that failed.
	Errors []error

	// K is the combined residue, determined modulo Modulus.
	K       *big.Int
	Modulus *big.Int

	// Exact is true when Modulus exceeds the scalar bound, so K is the scalar.
	Exact bool
}

// Err joins the per-prime errors, or returns nil when every prime succeeded.
func (r *SweepResult) Err() error {
	return errors.Join(r.Errors...)
}

type outcome struct {
	res *sdlp.DiscreteLogResult
	err error
}

// Sweep solves Q = k*G on y^2 = x^3 + a*x + b modulo each candidate prime
// and combines the residues k mod ord(phi(G)) by the Chinese remainder
// theorem. When primes is empty, the prime factors of 4a^3 + 27b^2 are used.
//
// Primes that fail are recorded in SweepResult.Errors without aborting the
// sweep. When the combined modulus does not exceed bound, the result is
// returned together with a *sdlp.PartialResultError.
func (s *Solver) Sweep(ctx context.Context, a, b *big.Int, primes []*big.Int, G, Q sdlp.Point, bound *big.Int) (*SweepResult, error) {
	if a == nil || b == nil || bound == nil || bound.Sign() <= 0 {
		return nil, fmt.Errorf("solver: sweep needs a, b and a positive bound: %w", sdlp.ErrInvalidInput)
	}
	if len(primes) == 0 {
		var err error
		if primes, err = singular.DiscriminantPrimes(a, b); err != nil {
			return nil, err
		}
		dlog.Debugf("Candidate primes from the discriminant: %v", primes)
	}

	workers := s.opts.Workers
	if workers <= 0 || workers > len(primes) {
		workers = len(primes)
	}

	// 1. Fan out, one slot per prime
	outcomes := make([]outcome, len(primes))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, p := range primes {
		wg.Add(1)
		go func(i int, p *big.Int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				outcomes[i].err = sdlp.NewPrimeError(p, StageSearch, ctx.Err())
				return
			}
			defer func() { <-sem }()

			res, err := s.Solve(ctx, sdlp.CurveParams{A: a, B: b, P: p}, G, Q)
			if err != nil {
				var pe *sdlp.PrimeError
				if !errors.As(err, &pe) {
					err = sdlp.NewPrimeError(p, StageAnalyze, err)
				}
				dlog.Debugf("[%v] %v", p, err)
			}
			outcomes[i] = outcome{res: res, err: err}
		}(i, p)
	}
	wg.Wait()

	// 2. Collect
	sr := &SweepResult{}
	var residues, moduli []*big.Int
	for _, o := range outcomes {
		if o.err != nil {
			sr.Errors = append(sr.Errors, o.err)
			continue
		}
		sr.Results = append(sr.Results, o.res)
		residues = append(residues, o.res.K)
		moduli = append(moduli, o.res.GeneratorOrder)
	}
	if len(sr.Results) == 0 {
		return sr, fmt.Errorf("solver: %d primes tried: %w", len(primes), errors.Join(sdlp.ErrNoUsablePrime, sr.Err()))
	}

	// 3. Combine
	k, modulus, err := crt.Combine(residues, moduli)
	if err != nil {
		return sr, err
	}
	sr.K, sr.Modulus = k, modulus
	dlog.Debugf("k = %v (mod %v) from %d primes", k, modulus, len(sr.Results))

	if modulus.Cmp(bound) <= 0 {
		return sr, &sdlp.PartialResultError{Modulus: new(big.Int).Set(modulus), Bound: new(big.Int).Set(bound)}
	}
	sr.Exact = true
	return sr, nil
}
