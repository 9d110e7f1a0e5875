// Package crt combines congruences k = r_i (mod m_i) whose moduli need not be
// pairwise coprime.
package crt

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// Combine returns the unique k in [0, L) satisfying every congruence, where L
// is the lcm of the moduli. Congruences that disagree on a common factor of
// their moduli fail with sdlp.ErrInconsistentResidues.
func Combine(residues, moduli []*big.Int) (k, lcm *big.Int, err error) {
	if len(residues) == 0 || len(residues) != len(moduli) {
		return nil, nil, fmt.Errorf("crt: %d residues for %d moduli: %w", len(residues), len(moduli), sdlp.ErrInvalidInput)
	}

	x := new(big.Int)
	l := big.NewInt(1)
	g, diff, t, step := new(big.Int), new(big.Int), new(big.Int), new(big.Int)

	for i, m := range moduli {
		if m == nil || m.Sign() <= 0 || residues[i] == nil {
			return nil, nil, fmt.Errorf("crt: congruence %d: %w", i, sdlp.ErrInvalidInput)
		}
		r := new(big.Int).Mod(residues[i], m)

		// x + l*t = r (mod m) is solvable iff gcd(l, m) divides r - x
		g.GCD(nil, nil, l, m)
		diff.Sub(r, x)
		if new(big.Int).Mod(diff, g).Sign() != 0 {
			return nil, nil, fmt.Errorf("crt: k = %s (mod %s) contradicts k = %s (mod %s): %w",
				r, m, x, l, sdlp.ErrInconsistentResidues)
		}

		mg := new(big.Int).Quo(m, g)
		diff.Quo(diff, g)
		t.Quo(l, g)
		if t.ModInverse(t, mg) == nil {
			// l/g and m/g are coprime, so this cannot happen
			return nil, nil, fmt.Errorf("crt: no inverse of %s mod %s", l, mg)
		}
		t.Mul(t, diff)
		t.Mod(t, mg)

		step.Mul(l, t)
		x.Add(x, step)
		l.Mul(l, mg)
		x.Mod(x, l)
	}

	return x, l, nil
}
