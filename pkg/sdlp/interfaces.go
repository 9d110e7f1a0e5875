package sdlp

import "context"

// Solver recovers k from Q = k*G on a curve that is singular modulo CurveParams.P.
type Solver interface {
	// Solve returns the smallest non-negative k with phi(Q) = phi(G)^k.
	// A returned result always has Verified set; anything short of that is
	// an error.
	Solve(ctx context.Context, curve CurveParams, G, Q Point) (*DiscreteLogResult, error)
}
