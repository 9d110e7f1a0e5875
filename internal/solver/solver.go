// Package solver recovers k from Q = k*G on Weierstrass curves that are
// singular modulo a prime, by mapping both points into a group where the
// discrete logarithm is easy.
package solver

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jedisct1/dlog"

	"github.com/smallyu/go-sdlp/internal/crypto/bsgs"
	"github.com/smallyu/go-sdlp/internal/crypto/embed"
	"github.com/smallyu/go-sdlp/internal/crypto/singular"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// Stages attached to PrimeError.
const (
	StageAnalyze = "analyze"
	StageMap     = "map"
	StageSearch  = "search"
	StageVerify  = "verify"
)

// Options configures a Solver.
type Options struct {
	// Workers bounds the number of primes a sweep solves concurrently.
	// Values <= 0 mean one worker per prime.
	Workers int

	// MaxTable bounds the BSGS baby-step table; <= 0 means unbounded.
	MaxTable int64

	// SkipCurveCheck maps points without checking the curve equation.
	// Only useful for inputs known to be off the curve, such as a
	// transcription-damaged challenge point.
	SkipCurveCheck bool

	// CacheSize is the number of singularity analyses kept in memory.
	CacheSize int
}

// Solver is safe for concurrent use.
type Solver struct {
	opts     Options
	analyzer *singular.Analyzer
}

// New creates a Solver.
func New(opts Options) (*Solver, error) {
	an, err := singular.NewAnalyzer(opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Solver{opts: opts, analyzer: an}, nil
}

// Analyzer returns the solver's memoising analyzer.
func (s *Solver) Analyzer() *singular.Analyzer {
	return s.analyzer
}

// Solve returns the smallest k >= 0 with phi(Q) = phi(G)^k on the curve
// reduced modulo curve.P. Failures are returned as *sdlp.PrimeError naming
// the stage that failed.
func (s *Solver) Solve(ctx context.Context, curve sdlp.CurveParams, G, Q sdlp.Point) (*sdlp.DiscreteLogResult, error) {
	if curve.A == nil || curve.B == nil || curve.P == nil {
		return nil, fmt.Errorf("solver: incomplete curve parameters: %w", sdlp.ErrInvalidInput)
	}
	p := curve.P

	// 1. Locate and classify the singular point
	node, err := s.analyzer.Analyze(curve.A, curve.B, p)
	if err != nil {
		return nil, sdlp.NewPrimeError(p, StageAnalyze, err)
	}
	dlog.Debugf("[%v] %s at x = %v", p, node.Kind, node.XS)

	if node.Kind == sdlp.Cusp {
		return s.solveCusp(node, G, Q)
	}
	return s.solveNode(ctx, node, G, Q)
}

func (s *Solver) solveNode(ctx context.Context, node *singular.Node, G, Q sdlp.Point) (*sdlp.DiscreteLogResult, error) {
	p := node.P
	field, err := node.Field()
	if err != nil {
		return nil, sdlp.NewPrimeError(p, StageAnalyze, err)
	}

	// 2. Map both points into the norm-1 subgroup of F_p[w]
	mapPoint := embed.Map
	if s.opts.SkipCurveCheck {
		mapPoint = embed.MapUnchecked
	}
	g, err := mapPoint(node, field, G)
	if err != nil {
		return nil, sdlp.NewPrimeError(p, StageMap, fmt.Errorf("G: %w", err))
	}
	h, err := mapPoint(node, field, Q)
	if err != nil {
		return nil, sdlp.NewPrimeError(p, StageMap, fmt.Errorf("Q: %w", err))
	}
	dlog.Debugf("[%v] phi(G) = %v, phi(Q) = %v", p, g, h)

	// 3. Discrete log in the group of order p -/+ 1
	n := node.SubgroupOrder()
	order, err := bsgs.ElementOrder(field, g, n, nil)
	if err != nil {
		return nil, sdlp.NewPrimeError(p, StageSearch, err)
	}
	k, err := bsgs.Solve(ctx, field, g, h, n, bsgs.WithMaxTable(s.opts.MaxTable))
	if err != nil {
		return nil, sdlp.NewPrimeError(p, StageSearch, err)
	}

	// 4. Re-exponentiate before reporting
	check, err := field.Exp(g, k)
	if err != nil || !field.Equal(check, h) {
		return nil, sdlp.NewPrimeError(p, StageVerify, fmt.Errorf("phi(G)^%v != phi(Q): %w", k, sdlp.ErrNotFound))
	}
	dlog.Debugf("[%v] k = %v (mod %v)", p, k, order)

	return &sdlp.DiscreteLogResult{
		P:              new(big.Int).Set(p),
		Kind:           node.Kind,
		K:              k,
		Order:          n,
		GeneratorOrder: order,
		Verified:       true,
	}, nil
}

// solveCusp divides in (F_p, +): t(Q) = k * t(G).
func (s *Solver) solveCusp(node *singular.Node, G, Q sdlp.Point) (*sdlp.DiscreteLogResult, error) {
	p := node.P
	additive := embed.Additive
	if s.opts.SkipCurveCheck {
		additive = embed.AdditiveUnchecked
	}
	tg, err := additive(node, G)
	if err != nil {
		return nil, sdlp.NewPrimeError(p, StageMap, fmt.Errorf("G: %w", err))
	}
	tq, err := additive(node, Q)
	if err != nil {
		return nil, sdlp.NewPrimeError(p, StageMap, fmt.Errorf("Q: %w", err))
	}
	dlog.Debugf("[%v] t(G) = %v, t(Q) = %v", p, tg, tq)

	res := &sdlp.DiscreteLogResult{
		P:     new(big.Int).Set(p),
		Kind:  sdlp.Cusp,
		Order: node.SubgroupOrder(),
	}

	// G = O generates the trivial group
	if tg.Sign() == 0 {
		if tq.Sign() != 0 {
			return nil, sdlp.NewPrimeError(p, StageSearch, fmt.Errorf("G is the identity: %w", sdlp.ErrNotFound))
		}
		res.K = new(big.Int)
		res.GeneratorOrder = big.NewInt(1)
		res.Verified = true
		return res, nil
	}

	k := new(big.Int).ModInverse(tg, p)
	k.Mul(k, tq)
	k.Mod(k, p)

	check := new(big.Int).Mul(k, tg)
	if check.Mod(check, p).Cmp(tq) != 0 {
		return nil, sdlp.NewPrimeError(p, StageVerify, fmt.Errorf("%v * t(G) != t(Q): %w", k, sdlp.ErrNotFound))
	}

	res.K = k
	res.GeneratorOrder = new(big.Int).Set(p)
	res.Verified = true
	return res, nil
}

var _ sdlp.Solver = (*Solver)(nil)
