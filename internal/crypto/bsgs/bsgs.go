// Package bsgs solves discrete logarithms in the unit group of an fp2.Field
// with Shanks' baby-step giant-step algorithm.
package bsgs

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/smallyu/go-sdlp/internal/crypto/factor"
	"github.com/smallyu/go-sdlp/internal/crypto/fp2"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// checkEvery is how many steps run between context checks.
const checkEvery = 1 << 10

type options struct {
	maxTable int64
}

// Option configures Solve.
type Option func(*options)

// WithMaxTable limits the number of baby steps. Searches that would need a
// larger table fail with sdlp.ErrSearchTooLarge instead of allocating it.
// A limit <= 0 means no limit.
func WithMaxTable(n int64) Option {
	return func(o *options) {
		o.maxTable = n
	}
}

// StepSize returns m = ceil(sqrt(n)) + 1, the number of baby steps used for a
// group of order n.
func StepSize(n *big.Int) *big.Int {
	m := new(big.Int).Sqrt(n)
	if new(big.Int).Mul(m, m).Cmp(n) < 0 {
		m.Add(m, big.NewInt(1))
	}
	return m.Add(m, big.NewInt(1))
}

// Solve returns the smallest k in [0, n) with g^k = h, where n is a multiple
// of the order of g. Every candidate is checked by re-exponentiation before it
// is returned.
func Solve(ctx context.Context, field *fp2.Field, g, h fp2.Element, n *big.Int, opts ...Option) (*big.Int, error) {
	if field == nil || n == nil || n.Sign() <= 0 {
		return nil, fmt.Errorf("bsgs: need a field and a positive order: %w", sdlp.ErrInvalidInput)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	mBig := StepSize(n)
	if !mBig.IsInt64() || mBig.Int64() >= math.MaxInt32 || (o.maxTable > 0 && mBig.Int64()+1 > o.maxTable) {
		return nil, fmt.Errorf("bsgs: %s baby steps for order %s: %w", mBig, n, sdlp.ErrSearchTooLarge)
	}
	m := mBig.Int64()

	// 1. Baby steps: g^j -> j for j in [0, m], first occurrence wins
	table := make(map[string]int64, m+1)
	cur := field.One()
	for j := int64(0); j <= m; j++ {
		if j%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		key := field.Key(cur)
		if _, ok := table[key]; !ok {
			table[key] = j
		}
		cur = field.Mul(cur, g)
	}

	// 2. Giant stride g^-m
	gm, err := field.Exp(g, mBig)
	if err != nil {
		return nil, err
	}
	stride, err := field.Inverse(gm)
	if err != nil {
		return nil, fmt.Errorf("bsgs: inverting g^%d: %w", m, err)
	}

	// 3. Giant steps: h * g^(-im) for i in [0, m]
	gamma := h
	k := new(big.Int)
	for i := int64(0); i <= m; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if j, ok := table[field.Key(gamma)]; ok {
			k.SetInt64(i)
			k.Mul(k, mBig)
			k.Add(k, big.NewInt(j))
			k.Mod(k, n)
			if check, err := field.Exp(g, k); err == nil && field.Equal(check, h) {
				return k, nil
			}
		}
		gamma = field.Mul(gamma, stride)
	}

	return nil, fmt.Errorf("bsgs: no k below %s: %w", n, sdlp.ErrNotFound)
}

// ElementOrder returns the exact order of g, which must divide n. factors is
// the prime factorisation of n (with or without multiplicity); when nil, n is
// factored here.
func ElementOrder(field *fp2.Field, g fp2.Element, n *big.Int, factors []*big.Int) (*big.Int, error) {
	if field == nil || n == nil || n.Sign() <= 0 {
		return nil, fmt.Errorf("bsgs: need a field and a positive order: %w", sdlp.ErrInvalidInput)
	}
	gn, err := field.Exp(g, n)
	if err != nil {
		return nil, err
	}
	if !field.IsOne(gn) {
		return nil, fmt.Errorf("bsgs: %s^%s != 1: %w", g, n, sdlp.ErrInvalidInput)
	}

	if factors == nil {
		if factors, err = factor.Factorize(n); err != nil {
			return nil, err
		}
	}

	order := new(big.Int).Set(n)
	q, r := new(big.Int), new(big.Int)
	for _, f := range factor.Distinct(factors) {
		for {
			q.QuoRem(order, f, r)
			if r.Sign() != 0 {
				break
			}
			x, err := field.Exp(g, q)
			if err != nil {
				return nil, err
			}
			if !field.IsOne(x) {
				break
			}
			order.Set(q)
		}
	}
	return order, nil
}
