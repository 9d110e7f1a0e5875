package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/jedisct1/dlog"

	"github.com/smallyu/go-sdlp/internal/config"
	"github.com/smallyu/go-sdlp/internal/solver"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

const appName = "sdlp"

func main() {
	dlog.Init(appName, dlog.SeverityNotice, "DAEMON")

	cfg, err := config.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		dlog.Fatal(err)
	}
	if cfg.LogLevel >= 0 && cfg.LogLevel < int(dlog.SeverityLast) {
		dlog.SetLogLevel(dlog.Severity(cfg.LogLevel))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		dlog.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	s, err := solver.New(solver.Options{
		Workers:        cfg.Workers,
		MaxTable:       cfg.MaxTable,
		SkipCurveCheck: cfg.SkipCurveCheck,
		CacheSize:      cfg.CacheSize,
	})
	if err != nil {
		return err
	}
	if cfg.SkipCurveCheck {
		dlog.Warnf("Curve membership checks are disabled")
	}

	if !cfg.Sweep {
		res, err := s.Solve(ctx, cfg.Curve, cfg.G, cfg.Q)
		if err != nil {
			return err
		}
		report(res)
		return nil
	}

	sr, err := s.Sweep(ctx, cfg.Curve.A, cfg.Curve.B, cfg.Primes, cfg.G, cfg.Q, cfg.Bound)
	if sr != nil {
		for _, perr := range sr.Errors {
			dlog.Warnf("%v", perr)
		}
		for _, res := range sr.Results {
			report(res)
		}
	}
	var partial *sdlp.PartialResultError
	switch {
	case errors.As(err, &partial):
		dlog.Warnf("%v", err)
		dlog.Noticef("k = %v (mod %v)", sr.K, sr.Modulus)
		return nil
	case err != nil:
		return err
	}
	dlog.Noticef("k = %v", sr.K)
	return nil
}

func report(res *sdlp.DiscreteLogResult) {
	dlog.Noticef("[%v] %s: k = %v (mod %v), group order %v, verified: %v",
		res.P, res.Kind, res.K, res.GeneratorOrder, res.Order, res.Verified)
}
