package polynomial

import (
	"errors"
	"math/big"
)

// Polynomial represents f(x) = a_0 + a_1*x + ... + a_d*x^d
// with coefficients reduced modulo a prime P.
type Polynomial struct {
	Coefficients []*big.Int
	P            *big.Int
}

// New builds a polynomial from its coefficients, lowest degree first.
// The coefficients are copied and reduced modulo p.
func New(p *big.Int, coeffs ...*big.Int) (*Polynomial, error) {
	if p == nil || p.Sign() <= 0 {
		return nil, errors.New("polynomial: modulus must be positive")
	}
	if len(coeffs) == 0 {
		return nil, errors.New("polynomial: at least one coefficient required")
	}

	cs := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		if c == nil {
			return nil, errors.New("polynomial: nil coefficient")
		}
		cs[i] = new(big.Int).Mod(c, p)
	}

	return &Polynomial{
		Coefficients: cs,
		P:            new(big.Int).Set(p),
	}, nil
}

// Cubic returns the Weierstrass right-hand side x^3 + a*x + b mod p.
func Cubic(a, b, p *big.Int) (*Polynomial, error) {
	return New(p, b, a, big.NewInt(0), big.NewInt(1))
}

// Degree returns the index of the highest coefficient slot.
func (f *Polynomial) Degree() int {
	return len(f.Coefficients) - 1
}

// Evaluate calculates f(x) mod p
func (f *Polynomial) Evaluate(x *big.Int) *big.Int {
	// Horner's method
	// result = a_d
	// for i = d-1 down to 0:
	//   result = result * x + a_i
	degree := f.Degree()
	result := new(big.Int).Set(f.Coefficients[degree])

	for i := degree - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, f.Coefficients[i])
		result.Mod(result, f.P)
	}

	return result.Mod(result, f.P)
}

// EvaluateMulti calculates f(x) for multiple x values
func (f *Polynomial) EvaluateMulti(xs []*big.Int) []*big.Int {
	results := make([]*big.Int, len(xs))
	for i, x := range xs {
		results[i] = f.Evaluate(x)
	}
	return results
}

// Derivative returns the formal derivative f'(x).
func (f *Polynomial) Derivative() *Polynomial {
	if f.Degree() == 0 {
		return &Polynomial{Coefficients: []*big.Int{new(big.Int)}, P: f.P}
	}

	coeffs := make([]*big.Int, f.Degree())
	for i := 1; i <= f.Degree(); i++ {
		c := new(big.Int).Mul(f.Coefficients[i], big.NewInt(int64(i)))
		coeffs[i-1] = c.Mod(c, f.P)
	}
	return &Polynomial{Coefficients: coeffs, P: f.P}
}

// IsRoot reports whether f(x) = 0 mod p.
func (f *Polynomial) IsRoot(x *big.Int) bool {
	return f.Evaluate(x).Sign() == 0
}

// IsDoubleRoot reports whether x is a root of both f and f'.
func (f *Polynomial) IsDoubleRoot(x *big.Int) bool {
	return f.IsRoot(x) && f.Derivative().IsRoot(x)
}
