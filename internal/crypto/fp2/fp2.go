// Package fp2 implements arithmetic in the quadratic algebra F_p[w]/(w^2 - c).
//
// When c is a quadratic non-residue modulo p the algebra is the field F_{p^2};
// when c is a non-zero residue it degenerates to F_p x F_p. Both cases share
// the same formulas, and the norm-1 elements form a cyclic group of order
// p+1 or p-1 respectively.
package fp2

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// Field binds the modulus p and the parameter c = w^2.
// It holds no mutable state and is safe for concurrent use.
type Field struct {
	P *big.Int
	C *big.Int

	size int // byte length of p, used for canonical keys
}

// Element represents A + B*w. Elements produced by a Field are always reduced.
type Element struct {
	A *big.Int
	B *big.Int
}

// NewField returns the algebra F_p[w]/(w^2 - c). p must be an odd prime.
func NewField(p, c *big.Int) (*Field, error) {
	if p == nil || c == nil {
		return nil, errors.New("fp2: p and c cannot be nil")
	}
	if p.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("fp2: modulus %s too small: %w", p, sdlp.ErrUnsupportedPrime)
	}
	return &Field{
		P:    new(big.Int).Set(p),
		C:    new(big.Int).Mod(c, p),
		size: (p.BitLen() + 7) / 8,
	}, nil
}

func (f *Field) reduce(x *big.Int) *big.Int {
	// big.Int.Mod returns the Euclidean modulus, never negative for p > 0
	return x.Mod(x, f.P)
}

// Element returns a + b*w reduced modulo p.
func (f *Field) Element(a, b *big.Int) Element {
	return Element{
		A: f.reduce(new(big.Int).Set(a)),
		B: f.reduce(new(big.Int).Set(b)),
	}
}

// FromInt64 is a convenience wrapper around Element.
func (f *Field) FromInt64(a, b int64) Element {
	return f.Element(big.NewInt(a), big.NewInt(b))
}

// Zero returns 0 + 0w.
func (f *Field) Zero() Element {
	return Element{A: new(big.Int), B: new(big.Int)}
}

// One returns the multiplicative identity 1 + 0w.
func (f *Field) One() Element {
	return Element{A: big.NewInt(1), B: new(big.Int)}
}

// Add returns x + y.
func (f *Field) Add(x, y Element) Element {
	return Element{
		A: f.reduce(new(big.Int).Add(x.A, y.A)),
		B: f.reduce(new(big.Int).Add(x.B, y.B)),
	}
}

// Sub returns x - y.
func (f *Field) Sub(x, y Element) Element {
	return Element{
		A: f.reduce(new(big.Int).Sub(x.A, y.A)),
		B: f.reduce(new(big.Int).Sub(x.B, y.B)),
	}
}

// Neg returns -x.
func (f *Field) Neg(x Element) Element {
	return f.Sub(f.Zero(), x)
}

// Mul returns x * y.
// (a1 + b1 w)(a2 + b2 w) = (a1 a2 + c b1 b2) + (a1 b2 + a2 b1) w
func (f *Field) Mul(x, y Element) Element {
	a := new(big.Int).Mul(x.A, y.A)
	bb := new(big.Int).Mul(x.B, y.B)
	bb.Mul(bb, f.C)
	a.Add(a, bb)

	b := new(big.Int).Mul(x.A, y.B)
	b.Add(b, new(big.Int).Mul(y.A, x.B))

	return Element{A: f.reduce(a), B: f.reduce(b)}
}

// Square returns x^2.
func (f *Field) Square(x Element) Element {
	return f.Mul(x, x)
}

// Conjugate returns a - b*w.
func (f *Field) Conjugate(x Element) Element {
	return Element{
		A: new(big.Int).Set(x.A),
		B: f.reduce(new(big.Int).Neg(x.B)),
	}
}

// Norm returns x * conj(x) = a^2 - c b^2 mod p.
func (f *Field) Norm(x Element) *big.Int {
	n := new(big.Int).Mul(x.A, x.A)
	cb2 := new(big.Int).Mul(x.B, x.B)
	cb2.Mul(cb2, f.C)
	n.Sub(n, cb2)
	return f.reduce(n)
}

// Inverse returns x^-1 = conj(x) / norm(x).
// It fails with sdlp.ErrZeroNorm when x is not invertible.
func (f *Field) Inverse(x Element) (Element, error) {
	n := f.Norm(x)
	if n.Sign() == 0 {
		return Element{}, fmt.Errorf("fp2: inverse of %s: %w", x, sdlp.ErrZeroNorm)
	}
	nInv := new(big.Int).ModInverse(n, f.P)
	if nInv == nil {
		// only reachable when p is not prime
		return Element{}, fmt.Errorf("fp2: norm %s not invertible mod %s: %w", n, f.P, sdlp.ErrZeroNorm)
	}
	a := new(big.Int).Mul(x.A, nInv)
	b := new(big.Int).Neg(x.B)
	b.Mul(b, nInv)
	return Element{A: f.reduce(a), B: f.reduce(b)}, nil
}

// Div returns x / y.
func (f *Field) Div(x, y Element) (Element, error) {
	yInv, err := f.Inverse(y)
	if err != nil {
		return Element{}, err
	}
	return f.Mul(x, yInv), nil
}

// Exp returns x^e by left-to-right square-and-multiply. e must be non-negative.
func (f *Field) Exp(x Element, e *big.Int) (Element, error) {
	if e.Sign() < 0 {
		return Element{}, fmt.Errorf("fp2: negative exponent %s: %w", e, sdlp.ErrInvalidInput)
	}
	res := f.One()
	for i := e.BitLen() - 1; i >= 0; i-- {
		res = f.Square(res)
		if e.Bit(i) == 1 {
			res = f.Mul(res, x)
		}
	}
	return res, nil
}

// ExpInt64 is Exp for small non-negative exponents.
func (f *Field) ExpInt64(x Element, e int64) (Element, error) {
	return f.Exp(x, big.NewInt(e))
}

// Equal reports whether x and y have the same reduced representatives.
func (f *Field) Equal(x, y Element) bool {
	return f.reduce(new(big.Int).Set(x.A)).Cmp(f.reduce(new(big.Int).Set(y.A))) == 0 &&
		f.reduce(new(big.Int).Set(x.B)).Cmp(f.reduce(new(big.Int).Set(y.B))) == 0
}

// IsOne reports whether x is the multiplicative identity.
func (f *Field) IsOne(x Element) bool {
	return f.Equal(x, f.One())
}

// IsZero reports whether x is 0.
func (f *Field) IsZero(x Element) bool {
	return f.Equal(x, f.Zero())
}

// Key returns a fixed-width byte string that identifies x uniquely in this field.
func (f *Field) Key(x Element) string {
	buf := make([]byte, 2*f.size)
	f.reduce(new(big.Int).Set(x.A)).FillBytes(buf[:f.size])
	f.reduce(new(big.Int).Set(x.B)).FillBytes(buf[f.size:])
	return string(buf)
}

func (x Element) String() string {
	if x.A == nil || x.B == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s + %s*w", x.A, x.B)
}
