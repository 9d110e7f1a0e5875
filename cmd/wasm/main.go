//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-sdlp/internal/config"
	"github.com/smallyu/go-sdlp/internal/crypto/curves"
	"github.com/smallyu/go-sdlp/internal/solver"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// Solvers keyed by their options, so repeated calls share analyzer caches.
var solvers = make(map[solver.Options]*solver.Solver)

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("Go SDLP WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("GoSDLP", map[string]interface{}{
		"Solve":  js.FuncOf(Solve),
		"Curves": js.FuncOf(Curves),
	})

	<-c
}

// Solve runs a single-prime solve or a sweep.
// Arguments:
// 0: JSON string with the same keys as the TOML solve file
// Returns:
// JSON string of the result, or an "error: ..." string
func Solve(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonParams)"
	}

	var file config.File
	if err := json.Unmarshal([]byte(args[0].String()), &file); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}
	cfg, err := file.Resolve()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	opts := solver.Options{
		Workers:        cfg.Workers,
		MaxTable:       cfg.MaxTable,
		SkipCurveCheck: cfg.SkipCurveCheck,
		CacheSize:      cfg.CacheSize,
	}
	s, ok := solvers[opts]
	if !ok {
		if s, err = solver.New(opts); err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		solvers[opts] = s
	}

	ctx := context.Background()
	if !cfg.Sweep {
		res, err := s.Solve(ctx, cfg.Curve, cfg.G, cfg.Q)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return marshal(encodeResult(res))
	}

	sr, err := s.Sweep(ctx, cfg.Curve.A, cfg.Curve.B, cfg.Primes, cfg.G, cfg.Q, cfg.Bound)
	var partial *sdlp.PartialResultError
	if err != nil && !errors.As(err, &partial) {
		return fmt.Sprintf("error: %v", err)
	}

	// big.Int marshals as a JSON number, which JS truncates; use strings
	results := make([]interface{}, 0, len(sr.Results))
	for _, res := range sr.Results {
		results = append(results, encodeResult(res))
	}
	failures := make([]string, 0, len(sr.Errors))
	for _, e := range sr.Errors {
		failures = append(failures, e.Error())
	}
	return marshal(map[string]interface{}{
		"k":       sr.K.String(),
		"modulus": sr.Modulus.String(),
		"exact":   sr.Exact,
		"results": results,
		"errors":  failures,
	})
}

// Curves lists the built-in curve names.
// Returns:
// JSON array of strings
func Curves(this js.Value, args []js.Value) interface{} {
	return marshal(curves.Names())
}

// Helpers

func encodeResult(res *sdlp.DiscreteLogResult) map[string]interface{} {
	return map[string]interface{}{
		"p":              res.P.String(),
		"kind":           res.Kind.String(),
		"k":              res.K.String(),
		"order":          res.Order.String(),
		"generatorOrder": res.GeneratorOrder.String(),
		"verified":       res.Verified,
	}
}

func marshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: marshal result failed: %v", err)
	}
	return string(b)
}
