package factor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestFactorizeSmall(t *testing.T) {
	tests := []struct {
		n    int64
		want []*big.Int
	}{
		{n: 0, want: nil},
		{n: 1, want: nil},
		{n: 2, want: ints(2)},
		{n: 734, want: ints(2, 367)},
		{n: 732, want: ints(2, 2, 3, 61)},
		{n: 19791, want: ints(3, 3, 3, 733)},
		{n: -19791, want: ints(3, 3, 3, 733)},
	}
	for _, tt := range tests {
		got, err := Factorize(big.NewInt(tt.n))
		require.NoError(t, err, "n=%d", tt.n)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}
}

func TestFactorizeNeedsRho(t *testing.T) {
	// two primes above the trial division limit
	p, _ := new(big.Int).SetString("1000003", 10)
	q, _ := new(big.Int).SetString("1000033", 10)
	n := new(big.Int).Mul(p, q)
	n.Mul(n, big.NewInt(12))

	got, err := Factorize(n)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, ints(2, 2, 3), got[:3])
	assert.Equal(t, 0, got[3].Cmp(p))
	assert.Equal(t, 0, got[4].Cmp(q))
}

func TestFactorizeLargePrime(t *testing.T) {
	p := new(big.Int).Lsh(big.NewInt(1), 127)
	p.Sub(p, big.NewInt(1)) // Mersenne prime
	got, err := Factorize(p)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Cmp(p))
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, ints(2, 3, 61), Distinct(ints(2, 2, 3, 61)))
	assert.Nil(t, Distinct(nil))
}
