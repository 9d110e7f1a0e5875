// Package config loads a solve description for the sdlp command from a TOML
// file, a catalog curve and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/smallyu/go-sdlp/internal/crypto/curves"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// DefaultLogLevel is dlog's notice severity.
const DefaultLogLevel = 2

// File is the on-disk TOML layout, also accepted as JSON. Integers are strings so that values beyond
// 64 bits fit; both decimal and 0x-prefixed hex are accepted.
type File struct {
	Curve string `toml:"curve" json:"curve"`

	A string `toml:"a" json:"a"`
	B string `toml:"b" json:"b"`
	P string `toml:"p" json:"p"`

	Gx string `toml:"gx" json:"gx"`
	Gy string `toml:"gy" json:"gy"`
	Qx string `toml:"qx" json:"qx"`
	Qy string `toml:"qy" json:"qy"`

	Primes []string `toml:"primes" json:"primes"`
	Bound  string   `toml:"bound" json:"bound"`

	Workers        int   `toml:"workers" json:"workers"`
	MaxTable       int64 `toml:"max_table" json:"max_table"`
	CacheSize      int   `toml:"cache_size" json:"cache_size"`
	SkipCurveCheck bool  `toml:"skip_curve_check" json:"skip_curve_check"`
	LogLevel       *int  `toml:"log_level" json:"log_level"`
}

// Config is a fully resolved solve request.
type Config struct {
	Curve sdlp.CurveParams
	G, Q  sdlp.Point

	// Sweep is set when no single prime was given or candidate primes were
	// listed; the solve then runs over Primes (or the discriminant's primes).
	Sweep  bool
	Primes []*big.Int
	Bound  *big.Int

	Workers        int
	MaxTable       int64
	CacheSize      int
	SkipCurveCheck bool
	LogLevel       int
}

// LoadFile decodes a TOML solve file. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &f, nil
}

// ParseFlags builds a Config from command-line arguments.
func ParseFlags(args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("sdlp", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	var (
		configPath = fs.String("config", "", "path to a TOML solve file")
		curveName  = fs.String("curve", "", "catalog curve: "+strings.Join(curves.Names(), ", "))
		aStr       = fs.String("a", "", "curve coefficient a")
		bStr       = fs.String("b", "", "curve coefficient b")
		pStr       = fs.String("p", "", "prime modulus; omit to sweep the discriminant's primes")
		gxStr      = fs.String("gx", "", "x-coordinate of G")
		gyStr      = fs.String("gy", "", "y-coordinate of G")
		qxStr      = fs.String("qx", "", "x-coordinate of Q")
		qyStr      = fs.String("qy", "", "y-coordinate of Q")
		primesStr  = fs.String("primes", "", "comma-separated candidate primes for a sweep")
		boundStr   = fs.String("bound", "", "exclusive upper bound on k for a sweep")
		workers    = fs.Int("workers", 0, "number of concurrent per-prime solves (default GOMAXPROCS)")
		maxTable   = fs.Int64("max-table", 0, "maximum baby-step table size (0 = unbounded)")
		cacheSize  = fs.Int("cache-size", 0, "number of cached singularity analyses")
		skipCheck  = fs.Bool("skip-curve-check", false, "map points without checking the curve equation")
		logLevel   = fs.Int("loglevel", DefaultLogLevel, "log level (0 = debug .. 6 = fatal)")
	)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// 1. File, if any
	file := &File{}
	if *configPath != "" {
		var err error
		if file, err = LoadFile(*configPath); err != nil {
			return nil, err
		}
	}

	// 2. Flags override the file
	override := func(name string, dst *string, v string) {
		if set[name] {
			*dst = v
		}
	}
	override("curve", &file.Curve, *curveName)
	override("a", &file.A, *aStr)
	override("b", &file.B, *bStr)
	override("p", &file.P, *pStr)
	override("gx", &file.Gx, *gxStr)
	override("gy", &file.Gy, *gyStr)
	override("qx", &file.Qx, *qxStr)
	override("qy", &file.Qy, *qyStr)
	override("bound", &file.Bound, *boundStr)
	if set["primes"] {
		file.Primes = splitList(*primesStr)
	}
	if set["workers"] {
		file.Workers = *workers
	}
	if set["max-table"] {
		file.MaxTable = *maxTable
	}
	if set["cache-size"] {
		file.CacheSize = *cacheSize
	}
	if set["skip-curve-check"] {
		file.SkipCurveCheck = *skipCheck
	}
	if set["loglevel"] || file.LogLevel == nil {
		lvl := *logLevel
		file.LogLevel = &lvl
	}

	return file.Resolve()
}

// Resolve turns the textual description into a Config. A catalog curve
// supplies defaults for every coordinate the file leaves empty.
func (f *File) Resolve() (*Config, error) {
	var base curves.Entry
	if f.Curve != "" {
		var err error
		if base, err = curves.Lookup(f.Curve); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Workers:        f.Workers,
		MaxTable:       f.MaxTable,
		CacheSize:      f.CacheSize,
		SkipCurveCheck: f.SkipCurveCheck,
		LogLevel:       DefaultLogLevel,
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	var err error
	if cfg.Curve.A, err = parseInt("a", f.A, base.Params.A); err != nil {
		return nil, err
	}
	if cfg.Curve.B, err = parseInt("b", f.B, base.Params.B); err != nil {
		return nil, err
	}
	if cfg.Curve.P, err = parseInt("p", f.P, base.Params.P); err != nil {
		return nil, err
	}
	if cfg.G, err = parsePoint("g", f.Gx, f.Gy, base.G); err != nil {
		return nil, err
	}
	if cfg.Q, err = parsePoint("q", f.Qx, f.Qy, base.Q); err != nil {
		return nil, err
	}
	if cfg.Curve.A == nil || cfg.Curve.B == nil {
		return nil, errors.New("missing curve coefficients: set -curve or both -a and -b")
	}

	for _, s := range f.Primes {
		p, err := parseInt("primes", s, nil)
		if err != nil {
			return nil, err
		}
		cfg.Primes = append(cfg.Primes, p)
	}
	if cfg.Bound, err = parseInt("bound", f.Bound, nil); err != nil {
		return nil, err
	}

	cfg.Sweep = cfg.Curve.P == nil || len(cfg.Primes) > 0
	if cfg.Sweep && (cfg.Bound == nil || cfg.Bound.Sign() <= 0) {
		return nil, errors.New("a sweep needs a positive -bound on k")
	}
	return cfg, nil
}

func parseInt(name, s string, def *big.Int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if def == nil {
			return nil, nil
		}
		return new(big.Int).Set(def), nil
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer for %s: %q", name, s)
	}
	return n, nil
}

func parsePoint(name, xs, ys string, def *sdlp.Point) (sdlp.Point, error) {
	var dx, dy *big.Int
	if def != nil {
		dx, dy = def.X, def.Y
	}
	x, err := parseInt(name+"x", xs, dx)
	if err != nil {
		return sdlp.Point{}, err
	}
	y, err := parseInt(name+"y", ys, dy)
	if err != nil {
		return sdlp.Point{}, err
	}
	if x == nil || y == nil {
		return sdlp.Point{}, fmt.Errorf("missing coordinates of %s", strings.ToUpper(name))
	}
	return sdlp.Point{X: x, Y: y}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
