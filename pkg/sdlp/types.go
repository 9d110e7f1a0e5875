package sdlp

import (
	"fmt"
	"math/big"
)

// CurveParams describes y^2 = x^3 + A*x + B over F_P.
// P may be nil when candidate primes are supplied separately.
type CurveParams struct {
	A *big.Int
	B *big.Int
	P *big.Int
}

// Point is either the point at infinity or an affine point (X, Y).
type Point struct {
	X, Y *big.Int
	Inf  bool
}

// Infinity returns the point at infinity.
func Infinity() Point {
	return Point{Inf: true}
}

// NewPoint returns the affine point (x, y). The coordinates are copied.
func NewPoint(x, y *big.Int) Point {
	return Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

// Reduce returns the point with both coordinates reduced into [0, p).
func (pt Point) Reduce(p *big.Int) Point {
	if pt.Inf {
		return pt
	}
	return Point{X: new(big.Int).Mod(pt.X, p), Y: new(big.Int).Mod(pt.Y, p)}
}

// Equal reports whether two points have identical coordinates.
func (pt Point) Equal(o Point) bool {
	if pt.Inf || o.Inf {
		return pt.Inf == o.Inf
	}
	return pt.X.Cmp(o.X) == 0 && pt.Y.Cmp(o.Y) == 0
}

func (pt Point) String() string {
	if pt.Inf {
		return "O"
	}
	return fmt.Sprintf("(%s, %s)", pt.X, pt.Y)
}

// Kind classifies the singular point of a degenerate cubic.
type Kind int

const (
	// NonSplit is a node whose tangent slopes live in F_{p^2}; the group has order p+1.
	NonSplit Kind = iota
	// Split is a node with tangent slopes in F_p; the group has order p-1.
	Split
	// Cusp has a single tangent; the group is (F_p, +) of order p.
	Cusp
)

func (k Kind) String() string {
	switch k {
	case Split:
		return "split node"
	case NonSplit:
		return "non-split node"
	case Cusp:
		return "cusp"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DiscreteLogResult is the outcome of solving Q = k*G modulo one singular prime.
type DiscreteLogResult struct {
	P    *big.Int // Prime the curve was reduced modulo
	Kind Kind

	// K is the smallest non-negative scalar with phi(G)^K = phi(Q).
	K *big.Int

	// Order is the order of the group the points were mapped into (p-1, p+1 or p).
	Order *big.Int

	// GeneratorOrder is the exact order of phi(G); K is only meaningful modulo it.
	GeneratorOrder *big.Int

	// Verified is true only when re-exponentiation reproduced phi(Q) exactly.
	Verified bool
}
