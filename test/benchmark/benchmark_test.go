package benchmark

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/smallyu/go-sdlp/internal/crypto/curves"
	"github.com/smallyu/go-sdlp/internal/solver"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// setupInstance builds y^2 = (x - 5)^2 (x + 10) modulo p with G = (-1, -18)
// and Q = k*G.
func setupInstance(b *testing.B, p int64, k int64) (sdlp.CurveParams, sdlp.Point, sdlp.Point) {
	b.Helper()
	params := sdlp.CurveParams{A: big.NewInt(-75), B: big.NewInt(250), P: big.NewInt(p)}
	G := sdlp.Point{X: big.NewInt(-1), Y: big.NewInt(-18)}
	curve, err := curves.NewWeierstrass(params)
	if err != nil {
		b.Fatal(err)
	}
	Q, err := curve.ScalarMult(G, big.NewInt(k))
	if err != nil {
		b.Fatal(err)
	}
	return params, G, Q
}

func BenchmarkSolve(b *testing.B) {
	for _, p := range []int64{1009, 65537, 1000033, 2147483647} {
		params, G, Q := setupInstance(b, p, p/3)
		b.Run(fmt.Sprintf("p=%d", p), func(b *testing.B) {
			s, err := solver.New(solver.Options{})
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.Solve(context.Background(), params, G, Q); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSweep(b *testing.B) {
	// G and Q reduce consistently modulo every prime since both are integer
	// points of the integer curve
	primes := []*big.Int{big.NewInt(1000003), big.NewInt(1000033), big.NewInt(1000037)}
	G := sdlp.Point{X: big.NewInt(-1), Y: big.NewInt(-18)}
	bound := big.NewInt(1)

	for _, workers := range []int{1, 3} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			s, err := solver.New(solver.Options{Workers: workers})
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.Sweep(context.Background(), big.NewInt(-75), big.NewInt(250), primes, G, G, bound); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
