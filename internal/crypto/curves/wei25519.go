package curves

import (
	"encoding/binary"
	"math/big"

	"filippo.io/edwards25519/field"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
)

// montgomeryA is the Curve25519 coefficient in v^2 = u^3 + A*u^2 + u.
const montgomeryA = 486662

// curve25519V is the v-coordinate of the Curve25519 base point u = 9.
const curve25519V = "14781619447589544791020593568409986887264606134616475288964881837755586237401"

func feFromUint64(v uint64) *field.Element {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:8], v)
	fe, err := new(field.Element).SetBytes(buf[:])
	if err != nil {
		panic("curves: " + err.Error())
	}
	return fe
}

// feToBig converts the little-endian canonical encoding to a big.Int.
func feToBig(fe *field.Element) *big.Int {
	le := fe.Bytes()
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	return new(big.Int).SetBytes(be)
}

// wei25519 is the short Weierstrass model of Curve25519, obtained with
// x = u + A/3:
//
//	a = (3 - A^2) / 3
//	b = (2A^3 - 9A) / 27
func wei25519() Entry {
	A := feFromUint64(montgomeryA)
	three := feFromUint64(3)
	twentySeven := feFromUint64(27)

	var A2, A3, t, inv3, inv27 field.Element
	A2.Square(A)
	A3.Multiply(&A2, A)
	inv3.Invert(three)
	inv27.Invert(twentySeven)

	var a field.Element
	a.Subtract(three, &A2)
	a.Multiply(&a, &inv3)

	var b field.Element
	b.Add(&A3, &A3)
	t.Multiply(feFromUint64(9), A)
	b.Subtract(&b, &t)
	b.Multiply(&b, &inv27)

	var gx field.Element
	gx.Multiply(A, &inv3)
	gx.Add(&gx, feFromUint64(9))

	p := new(big.Int).Lsh(big.NewInt(1), 255)
	p.Sub(p, big.NewInt(19))

	gy, _ := new(big.Int).SetString(curve25519V, 10)

	return Entry{
		Name:        "wei25519",
		Description: "short Weierstrass model of Curve25519 (non-singular)",
		Params: sdlp.CurveParams{
			A: feToBig(&a),
			B: feToBig(&b),
			P: p,
		},
		G: &sdlp.Point{X: feToBig(&gx), Y: gy},
	}
}
