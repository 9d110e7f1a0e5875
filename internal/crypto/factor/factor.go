// Package factor splits integers into prime factors with trial division
// followed by Pollard's rho. It is meant for group orders such as p+1 and
// for discriminant factors, not for cryptographic-size semiprimes.
package factor

import (
	"errors"
	"math/big"
	"sort"
)

// ErrIncomplete is returned when a composite cofactor could not be split
// within the iteration budget.
var ErrIncomplete = errors.New("factor: could not completely factor input")

const (
	trialLimit    = 1 << 16
	rhoIterations = 1 << 20
	rhoAttempts   = 16
	primeRounds   = 20
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Factorize returns the prime factors of |n| with multiplicity in ascending order.
// 0 and ±1 have no prime factors.
func Factorize(n *big.Int) ([]*big.Int, error) {
	nn := new(big.Int).Abs(n)
	if nn.Cmp(one) <= 0 {
		return nil, nil
	}

	var factors []*big.Int

	// 1. Trial division by small integers
	for d := int64(2); d < trialLimit; d++ {
		bd := big.NewInt(d)
		if new(big.Int).Mul(bd, bd).Cmp(nn) > 0 {
			break
		}
		for new(big.Int).Mod(nn, bd).Sign() == 0 {
			factors = append(factors, big.NewInt(d))
			nn.Quo(nn, bd)
		}
	}

	// 2. Pollard rho on what is left
	var err error
	if nn.Cmp(one) > 0 {
		factors, err = splitInto(factors, nn)
	}

	sort.Slice(factors, func(i, j int) bool {
		return factors[i].Cmp(factors[j]) < 0
	})
	return factors, err
}

func splitInto(acc []*big.Int, n *big.Int) ([]*big.Int, error) {
	if n.Cmp(one) == 0 {
		return acc, nil
	}
	if n.ProbablyPrime(primeRounds) {
		return append(acc, new(big.Int).Set(n)), nil
	}
	d := rho(n)
	if d == nil {
		return append(acc, new(big.Int).Set(n)), ErrIncomplete
	}
	acc, err := splitInto(acc, d)
	if err != nil {
		return acc, err
	}
	return splitInto(acc, new(big.Int).Quo(n, d))
}

// rho returns a non-trivial divisor of the odd composite n, or nil.
func rho(n *big.Int) *big.Int {
	for c := int64(1); c <= rhoAttempts; c++ {
		bc := big.NewInt(c)
		f := func(x *big.Int) *big.Int {
			x.Mul(x, x)
			x.Add(x, bc)
			return x.Mod(x, n)
		}

		x := new(big.Int).Set(two)
		y := new(big.Int).Set(two)
		d := new(big.Int).Set(one)
		diff := new(big.Int)

		for i := 0; i < rhoIterations && d.Cmp(one) == 0; i++ {
			f(x)
			f(f(y))
			diff.Sub(x, y)
			diff.Abs(diff)
			d.GCD(nil, nil, diff, n)
		}
		if d.Cmp(one) != 0 && d.Cmp(n) != 0 {
			return d
		}
	}
	return nil
}

// Distinct returns the distinct values of a sorted factor list.
func Distinct(factors []*big.Int) []*big.Int {
	var out []*big.Int
	for _, f := range factors {
		if len(out) == 0 || out[len(out)-1].Cmp(f) != 0 {
			out = append(out, f)
		}
	}
	return out
}
