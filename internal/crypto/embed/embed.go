// Package embed maps the non-singular points of a degenerate Weierstrass cubic
// into a group where discrete logarithms are easy.
//
// For a node at (xs, 0) with tangent cone y^2 = alpha*(x - xs)^2, the map
//
//	phi(x, y) = (y - (x - xs)w) / (y + (x - xs)w),  w^2 = alpha
//
// is a group isomorphism onto the norm-1 elements of F_p[w]/(w^2 - alpha).
// For a cusp at (xs, 0) the map (x - xs)/y is an isomorphism onto (F_p, +).
package embed

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-sdlp/internal/crypto/fp2"
	"github.com/smallyu/go-sdlp/internal/crypto/polynomial"
	"github.com/smallyu/go-sdlp/internal/crypto/singular"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

func onCurve(node *singular.Node, pt sdlp.Point) (bool, error) {
	cubic, err := polynomial.Cubic(node.A, node.B, node.P)
	if err != nil {
		return false, err
	}
	y2 := new(big.Int).Mul(pt.Y, pt.Y)
	y2.Mod(y2, node.P)
	return y2.Cmp(cubic.Evaluate(pt.X)) == 0, nil
}

func check(node *singular.Node, pt sdlp.Point, verify bool) (sdlp.Point, error) {
	if node == nil {
		return sdlp.Point{}, fmt.Errorf("embed: nil node: %w", sdlp.ErrInvalidInput)
	}
	if pt.X == nil || pt.Y == nil {
		return sdlp.Point{}, fmt.Errorf("embed: incomplete point: %w", sdlp.ErrInvalidInput)
	}
	pt = pt.Reduce(node.P)
	if verify {
		ok, err := onCurve(node, pt)
		if err != nil {
			return sdlp.Point{}, err
		}
		if !ok {
			return sdlp.Point{}, fmt.Errorf("embed: %s mod %s: %w", pt, node.P, sdlp.ErrPointNotOnCurve)
		}
	}
	if pt.X.Cmp(node.XS) == 0 {
		return sdlp.Point{}, fmt.Errorf("embed: x = %s: %w", pt.X, sdlp.ErrSingularPointMapped)
	}
	return pt, nil
}

// Map sends a point of the curve's non-singular locus to a norm-1 element.
// The point at infinity maps to 1.
func Map(node *singular.Node, field *fp2.Field, pt sdlp.Point) (fp2.Element, error) {
	return mapPoint(node, field, pt, true)
}

// MapUnchecked is Map without the curve-equation check. The image still has
// norm 1 whenever it exists, but is only meaningful for points that lie on
// the curve.
func MapUnchecked(node *singular.Node, field *fp2.Field, pt sdlp.Point) (fp2.Element, error) {
	return mapPoint(node, field, pt, false)
}

func mapPoint(node *singular.Node, field *fp2.Field, pt sdlp.Point, verify bool) (fp2.Element, error) {
	if field == nil {
		return fp2.Element{}, fmt.Errorf("embed: nil field: %w", sdlp.ErrInvalidInput)
	}
	if pt.Inf {
		return field.One(), nil
	}
	if node != nil && node.Kind == sdlp.Cusp {
		return fp2.Element{}, fmt.Errorf("embed: cusp has no multiplicative model: %w", sdlp.ErrInvalidInput)
	}
	pt, err := check(node, pt, verify)
	if err != nil {
		return fp2.Element{}, err
	}

	// dx = x - xs
	dx := new(big.Int).Sub(pt.X, node.XS)
	num := field.Element(pt.Y, new(big.Int).Neg(dx))
	den := field.Element(pt.Y, dx)

	img, err := field.Div(num, den)
	if err != nil {
		return fp2.Element{}, fmt.Errorf("embed: phi%s: %w", pt, err)
	}
	return img, nil
}

// Additive sends a non-singular point of a cuspidal cubic to (x - xs)/y in F_p.
// The point at infinity maps to 0.
func Additive(node *singular.Node, pt sdlp.Point) (*big.Int, error) {
	return additive(node, pt, true)
}

// AdditiveUnchecked is Additive without the curve-equation check.
func AdditiveUnchecked(node *singular.Node, pt sdlp.Point) (*big.Int, error) {
	return additive(node, pt, false)
}

func additive(node *singular.Node, pt sdlp.Point, verify bool) (*big.Int, error) {
	if pt.Inf {
		return new(big.Int), nil
	}
	if node != nil && node.Kind != sdlp.Cusp {
		return nil, fmt.Errorf("embed: additive map needs a cusp, got %s: %w", node.Kind, sdlp.ErrInvalidInput)
	}
	pt, err := check(node, pt, verify)
	if err != nil {
		return nil, err
	}

	yInv := new(big.Int).ModInverse(pt.Y, node.P)
	if yInv == nil {
		// y = 0 off the singular point is impossible on y^2 = (x - xs)^3
		return nil, fmt.Errorf("embed: y = 0 at %s: %w", pt, sdlp.ErrZeroNorm)
	}
	t := new(big.Int).Sub(pt.X, node.XS)
	t.Mul(t, yInv)
	return t.Mod(t, node.P), nil
}
