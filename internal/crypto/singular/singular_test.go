package singular

import (
	"math/big"
	"testing"

	"github.com/smallyu/go-sdlp/internal/crypto/curves"
	"github.com/smallyu/go-sdlp/pkg/sdlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeReference(t *testing.T) {
	node, err := Analyze(big.NewInt(3), big.NewInt(27), big.NewInt(733))
	require.NoError(t, err)

	assert.Equal(t, int64(353), node.XS.Int64())
	assert.Equal(t, sdlp.NonSplit, node.Kind)
	assert.False(t, node.Split())
	assert.Equal(t, int64(326), node.C.Int64())
	assert.Equal(t, int64(734), node.SubgroupOrder().Int64())

	f, err := node.Field()
	require.NoError(t, err)
	assert.Equal(t, int64(326), f.C.Int64())
}

func TestAnalyzeClassification(t *testing.T) {
	// 4(-56)^3 + 27(51)^2 = -53 * 79 * 151
	a, b := big.NewInt(-56), big.NewInt(51)

	tests := []struct {
		p     int64
		xs    int64
		c     int64
		kind  sdlp.Kind
		order int64
	}{
		{p: 53, xs: 52, c: 50, kind: sdlp.NonSplit, order: 54},
		{p: 79, xs: 19, c: 57, kind: sdlp.NonSplit, order: 80},
		{p: 151, xs: 89, c: 116, kind: sdlp.Split, order: 150},
	}
	for _, tt := range tests {
		node, err := Analyze(a, b, big.NewInt(tt.p))
		require.NoError(t, err, "p=%d", tt.p)
		assert.Equal(t, tt.xs, node.XS.Int64(), "p=%d", tt.p)
		assert.Equal(t, tt.c, node.C.Int64(), "p=%d", tt.p)
		assert.Equal(t, tt.kind, node.Kind, "p=%d", tt.p)
		assert.Equal(t, tt.order, node.SubgroupOrder().Int64(), "p=%d", tt.p)
		assert.Equal(t, 0, node.A.Cmp(new(big.Int).Mod(a, big.NewInt(tt.p))))
	}
}

func TestAnalyzeCusp(t *testing.T) {
	node, err := Analyze(big.NewInt(0), big.NewInt(0), big.NewInt(101))
	require.NoError(t, err)
	assert.Equal(t, sdlp.Cusp, node.Kind)
	assert.Equal(t, int64(0), node.XS.Int64())
	assert.Equal(t, int64(101), node.SubgroupOrder().Int64())

	_, err = node.Field()
	assert.ErrorIs(t, err, sdlp.ErrInvalidInput)

	// a and b vanish only modulo p
	node, err = Analyze(big.NewInt(101), big.NewInt(202), big.NewInt(101))
	require.NoError(t, err)
	assert.Equal(t, sdlp.Cusp, node.Kind)
}

func TestAnalyzeNotSingular(t *testing.T) {
	_, err := Analyze(big.NewInt(3), big.NewInt(27), big.NewInt(727))
	assert.ErrorIs(t, err, sdlp.ErrNotSingular)

	for _, name := range []string{"secp256k1", "wei25519"} {
		e, err := curves.Lookup(name)
		require.NoError(t, err)
		_, err = Analyze(e.Params.A, e.Params.B, e.Params.P)
		assert.ErrorIs(t, err, sdlp.ErrNotSingular, name)
	}
}

func TestAnalyzeUnsupportedPrime(t *testing.T) {
	a, b := big.NewInt(3), big.NewInt(27)
	for _, p := range []*big.Int{nil, big.NewInt(2), big.NewInt(3), big.NewInt(735)} {
		_, err := Analyze(a, b, p)
		assert.ErrorIs(t, err, sdlp.ErrUnsupportedPrime, "p=%v", p)
	}

	_, err := Analyze(nil, b, big.NewInt(733))
	assert.ErrorIs(t, err, sdlp.ErrInvalidInput)
}

func TestDiscriminantPrimes(t *testing.T) {
	assert.Equal(t, int64(19791), Discriminant(big.NewInt(3), big.NewInt(27)).Int64())

	ps, err := DiscriminantPrimes(big.NewInt(3), big.NewInt(27))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, int64(733), ps[0].Int64())

	ps, err = DiscriminantPrimes(big.NewInt(-56), big.NewInt(51))
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(t, []int64{53, 79, 151}, []int64{ps[0].Int64(), ps[1].Int64(), ps[2].Int64()})

	_, err = DiscriminantPrimes(big.NewInt(0), big.NewInt(0))
	assert.ErrorIs(t, err, sdlp.ErrInvalidInput)
}

func TestAnalyzerCache(t *testing.T) {
	an, err := NewAnalyzer(0)
	require.NoError(t, err)

	n1, err := an.Analyze(big.NewInt(3), big.NewInt(27), big.NewInt(733))
	require.NoError(t, err)
	assert.Equal(t, 1, an.Len())

	// same curve with unreduced coefficients hits the same entry
	n2, err := an.Analyze(big.NewInt(736), big.NewInt(27), big.NewInt(733))
	require.NoError(t, err)
	assert.Same(t, n1, n2)
	assert.Equal(t, 1, an.Len())

	_, err = an.Analyze(big.NewInt(3), big.NewInt(27), big.NewInt(727))
	assert.ErrorIs(t, err, sdlp.ErrNotSingular)
	_, err = an.Analyze(big.NewInt(3), big.NewInt(27), big.NewInt(727))
	assert.ErrorIs(t, err, sdlp.ErrNotSingular)
	assert.Equal(t, 2, an.Len())

	_, err = an.Analyze(big.NewInt(3), big.NewInt(27), nil)
	assert.ErrorIs(t, err, sdlp.ErrUnsupportedPrime)
}
