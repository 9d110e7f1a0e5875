package e2e

import (
	"context"
	"io"
	"math/big"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/smallyu/go-sdlp/internal/config"
	"github.com/smallyu/go-sdlp/internal/crypto/crt"
	"github.com/smallyu/go-sdlp/internal/crypto/curves"
	"github.com/smallyu/go-sdlp/internal/solver"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// nodal returns y^2 = (x - r)^2 (x + 2r), singular modulo every prime, and the
// integer point with x + 2r = t^2.
func nodal(r, t int64) (a, b *big.Int, G sdlp.Point) {
	a = big.NewInt(-3 * r * r)
	b = big.NewInt(2 * r * r * r)
	x := t*t - 2*r
	G = sdlp.Point{X: big.NewInt(x), Y: big.NewInt(t * (x - r))}
	return a, b, G
}

func run(t *testing.T, args ...string) (*config.Config, *solver.Solver) {
	t.Helper()
	cfg, err := config.ParseFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	s, err := solver.New(solver.Options{
		Workers:        cfg.Workers,
		MaxTable:       cfg.MaxTable,
		SkipCurveCheck: cfg.SkipCurveCheck,
		CacheSize:      cfg.CacheSize,
	})
	if err != nil {
		t.Fatalf("solver.New failed: %v", err)
	}
	return cfg, s
}

func TestPublishedInstanceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isctf.toml")
	body := "curve = \"isctf-733\"\nskip_curve_check = true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	// 1. Configuration
	cfg, s := run(t, "-config", path)
	if cfg.Sweep {
		t.Fatal("a single prime was configured")
	}

	// 2. Solve
	res, err := s.Solve(context.Background(), cfg.Curve, cfg.G, cfg.Q)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if res.K.Int64() != 468 || !res.Verified {
		t.Errorf("expected verified k = 468, got %v (verified %v)", res.K, res.Verified)
	}

	// 3. The same instance with the check enabled is refused
	cfg, s = run(t, "-config", path, "-skip-curve-check=false")
	if _, err := s.Solve(context.Background(), cfg.Curve, cfg.G, cfg.Q); err == nil {
		t.Error("expected the published Q to be rejected")
	}
}

func TestSweepFromFlags(t *testing.T) {
	cfg, s := run(t,
		"-a", "-56", "-b", "51",
		"-gx", "616990", "-gy", "148944",
		"-qx", "376794", "-qy", "595681",
		"-bound", "10000", "-workers", "2",
	)
	sr, err := s.Sweep(context.Background(), cfg.Curve.A, cfg.Curve.B, cfg.Primes, cfg.G, cfg.Q, cfg.Bound)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if !sr.Exact || sr.K.Int64() != 7777 {
		t.Errorf("expected exact k = 7777, got %v (mod %v)", sr.K, sr.Modulus)
	}
}

func TestRandomScalars(t *testing.T) {
	s, err := solver.New(solver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(7))

	tests := []struct {
		name string
		r, t int64
		p    int64
		kind sdlp.Kind
	}{
		{"split 1009", 5, 3, 1009, sdlp.Split},
		{"split 65537", 5, 3, 65537, sdlp.Split},
		{"non-split 1000033", 5, 3, 1000033, sdlp.NonSplit},
		{"cusp 65537", 0, 2, 65537, sdlp.Cusp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, G := nodal(tt.r, tt.t)
			params := sdlp.CurveParams{A: a, B: b, P: big.NewInt(tt.p)}
			curve, err := curves.NewWeierstrass(params)
			if err != nil {
				t.Fatal(err)
			}

			for i := 0; i < 10; i++ {
				k := new(big.Int).Rand(rnd, big.NewInt(tt.p))
				Q, err := curve.ScalarMult(G, k)
				if err != nil {
					t.Fatal(err)
				}
				res, err := s.Solve(context.Background(), params, G, Q)
				if err != nil {
					t.Fatalf("k = %v: %v", k, err)
				}
				if res.Kind != tt.kind {
					t.Errorf("expected %s, got %s", tt.kind, res.Kind)
				}
				back, err := curve.ScalarMult(G, res.K)
				if err != nil {
					t.Fatal(err)
				}
				if !back.Equal(Q) {
					t.Errorf("k = %v: solved %v does not reproduce Q", k, res.K)
				}
				want := new(big.Int).Mod(k, res.GeneratorOrder)
				if want.Cmp(res.K) != 0 {
					t.Errorf("expected k = %v (mod %v), got %v", want, res.GeneratorOrder, res.K)
				}
			}
		})
	}
}

func TestSweepLargeScalar(t *testing.T) {
	a, b, G := nodal(5, 3)
	primes := []*big.Int{big.NewInt(1000003), big.NewInt(1000033), big.NewInt(1000037)}
	bound := new(big.Int).Lsh(big.NewInt(1), 40)
	k := big.NewInt(987654321012)

	// Q = k*G modulo each prime, glued into one integer point
	var xs, ys []*big.Int
	for _, p := range primes {
		curve, err := curves.NewWeierstrass(sdlp.CurveParams{A: a, B: b, P: p})
		if err != nil {
			t.Fatal(err)
		}
		q, err := curve.ScalarMult(G, k)
		if err != nil {
			t.Fatal(err)
		}
		xs = append(xs, q.X)
		ys = append(ys, q.Y)
	}
	qx, _, err := crt.Combine(xs, primes)
	if err != nil {
		t.Fatal(err)
	}
	qy, _, err := crt.Combine(ys, primes)
	if err != nil {
		t.Fatal(err)
	}

	s, err := solver.New(solver.Options{Workers: 3})
	if err != nil {
		t.Fatal(err)
	}
	sr, err := s.Sweep(context.Background(), a, b, primes, G, sdlp.Point{X: qx, Y: qy}, bound)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if !sr.Exact || sr.K.Cmp(k) != 0 {
		t.Errorf("expected exact k = %v, got %v (mod %v)", k, sr.K, sr.Modulus)
	}
}
