package curves

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// Entry is a named curve with an optional generator and target point.
type Entry struct {
	Name        string
	Description string
	Params      sdlp.CurveParams
	G           *sdlp.Point
	Q           *sdlp.Point
}

type constructor func() Entry

var catalog = map[string]constructor{
	"isctf-733": isctf733,
	"secp256k1": secp256k1Entry,
	"wei25519":  wei25519,
}

// Lookup returns a fresh copy of the named catalog entry.
func Lookup(name string) (Entry, error) {
	ctor, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, fmt.Errorf("curves: unknown curve %q: %w", name, sdlp.ErrInvalidInput)
	}
	return ctor(), nil
}

// Names lists the catalog in lexical order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curves: bad hex constant " + s)
	}
	return n
}

// isctf733 is y^2 = x^3 + 3x + 27, singular modulo 733 (4*27 + 27*729 = 3^3 * 733).
// The published Q does not reduce to a point of the curve mod 733.
func isctf733() Entry {
	return Entry{
		Name:        "isctf-733",
		Description: "y^2 = x^3 + 3x + 27, non-split node modulo 733",
		Params: sdlp.CurveParams{
			A: big.NewInt(3),
			B: big.NewInt(27),
			P: big.NewInt(733),
		},
		G: &sdlp.Point{X: big.NewInt(0), Y: big.NewInt(352)},
		Q: &sdlp.Point{
			X: mustHex("a61ae2f42348f8b84e4b8271ee8ce3f19d7760330ef6a5f6ec992430dccdc167"),
			Y: mustHex("8a3ceb15b94ee7c6ce435147f31ca8028d1dd07a986711966980f7de20490080"),
		},
	}
}

// secp256k1Entry takes its parameters from the decred implementation.
// It is non-singular and serves as the canonical negative case.
func secp256k1Entry() Entry {
	params := secp256k1.S256().Params()
	return Entry{
		Name:        "secp256k1",
		Description: "y^2 = x^3 + 7 over the secp256k1 prime (non-singular)",
		Params: sdlp.CurveParams{
			A: big.NewInt(0),
			B: new(big.Int).Set(params.B),
			P: new(big.Int).Set(params.P),
		},
		G: &sdlp.Point{X: new(big.Int).Set(params.Gx), Y: new(big.Int).Set(params.Gy)},
	}
}
