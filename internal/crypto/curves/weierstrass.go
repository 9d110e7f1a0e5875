package curves

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/smallyu/go-sdlp/internal/crypto/polynomial"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// Weierstrass is the short Weierstrass curve y^2 = x^3 + A*x + B over F_P.
//
// The chord-tangent formulas are used as-is, so the group law is also valid
// on the non-singular points of a degenerate (singular) cubic. The singular
// point itself is never produced by Add on non-singular inputs.
type Weierstrass struct {
	A, B, P *big.Int

	rhs *polynomial.Polynomial
}

// NewWeierstrass reduces the coefficients modulo p.
func NewWeierstrass(params sdlp.CurveParams) (*Weierstrass, error) {
	if params.A == nil || params.B == nil || params.P == nil {
		return nil, fmt.Errorf("curves: incomplete parameters: %w", sdlp.ErrInvalidInput)
	}
	rhs, err := polynomial.Cubic(params.A, params.B, params.P)
	if err != nil {
		return nil, err
	}
	return &Weierstrass{
		A:   new(big.Int).Mod(params.A, params.P),
		B:   new(big.Int).Mod(params.B, params.P),
		P:   new(big.Int).Set(params.P),
		rhs: rhs,
	}, nil
}

// Params returns the reduced curve parameters.
func (c *Weierstrass) Params() sdlp.CurveParams {
	return sdlp.CurveParams{A: c.A, B: c.B, P: c.P}
}

// Polynomial returns x^3 + A*x + B mod P.
func (c *Weierstrass) Polynomial(x *big.Int) *big.Int {
	return c.rhs.Evaluate(x)
}

// Discriminant returns 4A^3 + 27B^2 mod P.
func (c *Weierstrass) Discriminant() *big.Int {
	a3 := new(big.Int).Exp(c.A, big.NewInt(3), c.P)
	a3.Mul(a3, big.NewInt(4))
	b2 := new(big.Int).Mul(c.B, c.B)
	b2.Mul(b2, big.NewInt(27))
	d := a3.Add(a3, b2)
	return d.Mod(d, c.P)
}

// IsSingular reports whether the discriminant vanishes mod P.
func (c *Weierstrass) IsSingular() bool {
	return c.Discriminant().Sign() == 0
}

// IsOnCurve reports whether pt satisfies the curve equation. Coordinates are
// reduced first, so unreduced inputs are accepted.
func (c *Weierstrass) IsOnCurve(pt sdlp.Point) bool {
	if pt.Inf {
		return true
	}
	if pt.X == nil || pt.Y == nil {
		return false
	}
	y2 := new(big.Int).Mul(pt.Y, pt.Y)
	y2.Mod(y2, c.P)
	return y2.Cmp(c.Polynomial(pt.X)) == 0
}

// Neg returns -pt.
func (c *Weierstrass) Neg(pt sdlp.Point) sdlp.Point {
	if pt.Inf {
		return pt
	}
	y := new(big.Int).Neg(pt.Y)
	return sdlp.Point{X: new(big.Int).Mod(pt.X, c.P), Y: y.Mod(y, c.P)}
}

func (c *Weierstrass) inv(x *big.Int) (*big.Int, error) {
	r := new(big.Int).ModInverse(new(big.Int).Mod(x, c.P), c.P)
	if r == nil {
		return nil, errors.New("curves: no inverse")
	}
	return r, nil
}

// Add returns P + Q.
func (c *Weierstrass) Add(P, Q sdlp.Point) (sdlp.Point, error) {
	if P.Inf {
		return Q.Reduce(c.P), nil
	}
	if Q.Inf {
		return P.Reduce(c.P), nil
	}
	P, Q = P.Reduce(c.P), Q.Reduce(c.P)

	var lam *big.Int
	if P.X.Cmp(Q.X) == 0 {
		ysum := new(big.Int).Add(P.Y, Q.Y)
		if ysum.Mod(ysum, c.P).Sign() == 0 {
			// P == -Q, including the vertical tangent at y == 0
			return sdlp.Infinity(), nil
		}
		// Doubling: lambda = (3x^2 + A) / 2y
		num := new(big.Int).Mul(P.X, P.X)
		num.Mul(num, big.NewInt(3))
		num.Add(num, c.A)
		den, err := c.inv(new(big.Int).Lsh(P.Y, 1))
		if err != nil {
			return sdlp.Point{}, err
		}
		lam = num.Mul(num, den)
	} else {
		// Secant: lambda = (y2 - y1) / (x2 - x1)
		num := new(big.Int).Sub(Q.Y, P.Y)
		den, err := c.inv(new(big.Int).Sub(Q.X, P.X))
		if err != nil {
			return sdlp.Point{}, err
		}
		lam = num.Mul(num, den)
	}
	lam.Mod(lam, c.P)

	xr := new(big.Int).Mul(lam, lam)
	xr.Sub(xr, P.X)
	xr.Sub(xr, Q.X)
	xr.Mod(xr, c.P)

	yr := new(big.Int).Sub(P.X, xr)
	yr.Mul(yr, lam)
	yr.Sub(yr, P.Y)
	yr.Mod(yr, c.P)

	return sdlp.Point{X: xr, Y: yr}, nil
}

// Double returns 2P.
func (c *Weierstrass) Double(P sdlp.Point) (sdlp.Point, error) {
	return c.Add(P, P)
}

// ScalarMult computes k*P by double-and-add. Negative k multiplies -P.
func (c *Weierstrass) ScalarMult(P sdlp.Point, k *big.Int) (sdlp.Point, error) {
	if k.Sign() < 0 {
		return c.ScalarMult(c.Neg(P), new(big.Int).Neg(k))
	}
	res := sdlp.Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		var err error
		if res, err = c.Double(res); err != nil {
			return sdlp.Point{}, err
		}
		if k.Bit(i) == 1 {
			if res, err = c.Add(res, P); err != nil {
				return sdlp.Point{}, err
			}
		}
	}
	return res, nil
}
