// Package singular locates and classifies the singular point of a Weierstrass
// cubic y^2 = x^3 + a*x + b whose discriminant vanishes modulo a prime.
package singular

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-sdlp/internal/crypto/factor"
	"github.com/smallyu/go-sdlp/internal/crypto/fp2"
	"github.com/smallyu/go-sdlp/internal/crypto/polynomial"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

const primeRounds = 20

// Node describes the singular point (x_s, 0) of a degenerate curve modulo P.
type Node struct {
	A, B, P *big.Int // curve coefficients reduced mod P

	XS   *big.Int // x-coordinate of the singular point
	Kind sdlp.Kind

	// Alpha is the tangent-cone coefficient: y^2 = Alpha*(x - XS)^2 near the node.
	Alpha *big.Int

	// C is the extension parameter w^2 = C used by the multiplicative map.
	C *big.Int
}

// Split reports whether the node's tangent slopes are defined over F_p.
func (n *Node) Split() bool {
	return n.Kind == sdlp.Split
}

// SubgroupOrder returns the order of the group of non-singular points:
// p-1 for a split node, p+1 for a non-split node, p for a cusp.
func (n *Node) SubgroupOrder() *big.Int {
	switch n.Kind {
	case sdlp.Split:
		return new(big.Int).Sub(n.P, big.NewInt(1))
	case sdlp.NonSplit:
		return new(big.Int).Add(n.P, big.NewInt(1))
	default:
		return new(big.Int).Set(n.P)
	}
}

// Field returns the algebra F_p[w]/(w^2 - C) the non-singular points map into.
func (n *Node) Field() (*fp2.Field, error) {
	if n.Kind == sdlp.Cusp {
		return nil, fmt.Errorf("singular: a cusp has no multiplicative model: %w", sdlp.ErrInvalidInput)
	}
	return fp2.NewField(n.P, n.C)
}

// Discriminant returns 4a^3 + 27b^2 over the integers.
func Discriminant(a, b *big.Int) *big.Int {
	a3 := new(big.Int).Mul(a, a)
	a3.Mul(a3, a)
	a3.Mul(a3, big.NewInt(4))
	b2 := new(big.Int).Mul(b, b)
	b2.Mul(b2, big.NewInt(27))
	return a3.Add(a3, b2)
}

// Analyze finds the singular point of y^2 = x^3 + a*x + b modulo p and
// classifies it. p must be a prime greater than 3 that divides the discriminant.
func Analyze(a, b, p *big.Int) (*Node, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("singular: nil coefficient: %w", sdlp.ErrInvalidInput)
	}
	if p == nil || p.Cmp(big.NewInt(3)) <= 0 || !p.ProbablyPrime(primeRounds) {
		return nil, fmt.Errorf("singular: p = %v: %w", p, sdlp.ErrUnsupportedPrime)
	}

	ar := new(big.Int).Mod(a, p)
	br := new(big.Int).Mod(b, p)

	// 1. The curve must be degenerate modulo p
	if new(big.Int).Mod(Discriminant(ar, br), p).Sign() != 0 {
		return nil, fmt.Errorf("singular: 4a^3 + 27b^2 != 0 mod %s: %w", p, sdlp.ErrNotSingular)
	}

	node := &Node{A: ar, B: br, P: new(big.Int).Set(p)}

	// 2. a = 0 forces b = 0: y^2 = x^3 has a cusp at the origin
	if ar.Sign() == 0 {
		node.XS = new(big.Int)
		node.Alpha = new(big.Int)
		node.C = new(big.Int)
		node.Kind = sdlp.Cusp
		return node, nil
	}

	// 3. Double root of (x - r)^2 (x + 2r) = x^3 - 3r^2 x + 2r^3 is r = -3b / 2a
	den := new(big.Int).Lsh(ar, 1)
	den.ModInverse(den, p)
	xs := new(big.Int).Mul(br, big.NewInt(-3))
	xs.Mul(xs, den)
	xs.Mod(xs, p)

	cubic, err := polynomial.Cubic(ar, br, p)
	if err != nil {
		return nil, err
	}
	if !cubic.IsDoubleRoot(xs) {
		// unreachable for prime p > 3 once the discriminant vanishes
		return nil, fmt.Errorf("singular: %s is not a double root of x^3 + %sx + %s mod %s", xs, ar, br, p)
	}
	node.XS = xs

	// 4. Near the node y^2 = (x - xs)^2 (x - xs + 3xs), so the tangent cone is
	// y^2 = alpha (x - xs)^2 with alpha = 3xs and discriminant 4*alpha.
	alpha := new(big.Int).Mul(xs, big.NewInt(3))
	alpha.Mod(alpha, p)
	node.Alpha = alpha
	node.C = new(big.Int).Set(alpha)

	switch big.Jacobi(alpha, p) {
	case 1:
		node.Kind = sdlp.Split
	case -1:
		node.Kind = sdlp.NonSplit
	default:
		// alpha = 0 means xs = 0, which only happens for a = 0 (handled above)
		return nil, fmt.Errorf("singular: degenerate tangent cone at %s mod %s", xs, p)
	}

	return node, nil
}

// DiscriminantPrimes returns the distinct primes greater than 3 dividing
// 4a^3 + 27b^2, in ascending order. Each of them makes the curve singular.
func DiscriminantPrimes(a, b *big.Int) ([]*big.Int, error) {
	d := Discriminant(a, b)
	if d.Sign() == 0 {
		return nil, fmt.Errorf("singular: discriminant is zero over the integers: %w", sdlp.ErrInvalidInput)
	}
	fs, err := factor.Factorize(d)
	if err != nil {
		return nil, fmt.Errorf("singular: factoring discriminant %s: %w", d, err)
	}

	var primes []*big.Int
	for _, f := range factor.Distinct(fs) {
		if f.Cmp(big.NewInt(3)) > 0 {
			primes = append(primes, f)
		}
	}
	return primes, nil
}
