package merkle

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/lightcore/crypto"
)

func TestHashFromByteSlices(t *testing.T) {
	testcases := map[string]struct {
		slices     [][]byte
		expectHash string // in hex format
	}{
		"nil":          {nil, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		"empty":        {[][]byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		"single":       {[][]byte{{1, 2, 3}}, "054edec1d0211f624fed0cbca9d4f9400b0e491c43742af2c5b0abebf0c990d8"},
		"single blank": {[][]byte{{}}, "6e340b9cffb37a989ca544e6bb780a2c78901d3fb33738768511a30617afa01d"},
		"two":          {[][]byte{[]byte("a"), []byte("b")}, "b137985ff484fb600db93107c77b0365c80d78f5b429ded0fd97361d077999eb"},
		"three":        {[][]byte{[]byte("a"), []byte("b"), []byte("c")}, "36642e73c2540ab121e3a6bf9545b0a24982cd830eb13d3cd19de3ce6c021ec1"},
		"many": {
			[][]byte{{0}, {1}, {2}, {3}, {4}},
			"b855b42d6c30f5b087e05266783fbd6e394f7b926013ccaa67700a8b0c5a596f",
		},
	}
	for name, tc := range testcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			hash := HashFromByteSlices(tc.slices)
			assert.Equal(t, tc.expectHash, hex.EncodeToString(hash))
		})
	}
}

func TestHashFromByteSlicesIsOrderSensitive(t *testing.T) {
	a := [][]byte{[]byte("first"), []byte("second"), []byte("third")}
	b := [][]byte{[]byte("second"), []byte("first"), []byte("third")}
	require.NotEqual(t, HashFromByteSlices(a), HashFromByteSlices(b))
}

func TestLeafAndInnerAreDomainSeparated(t *testing.T) {
	left, right := leafHash([]byte("l")), leafHash([]byte("r"))
	// A leaf whose content is an inner node's preimage must not collide with
	// the inner node.
	forged := append(append([]byte{}, left...), right...)
	require.NotEqual(t, innerHash(left, right), leafHash(forged))
	require.Len(t, innerHash(left, right), crypto.HashSize)
}

func TestGetSplitPoint(t *testing.T) {
	tests := []struct {
		length int64
		want   int64
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 4},
		{10, 8},
		{20, 16},
		{100, 64},
		{255, 128},
		{256, 128},
		{257, 256},
	}
	for _, tt := range tests {
		got := getSplitPoint(tt.length)
		require.EqualValues(t, tt.want, got, "getSplitPoint(%d) = %v, want %v", tt.length, got, tt.want)
	}
}

func BenchmarkHashFromByteSlices(b *testing.B) {
	for _, total := range []int{4, 100, 1000} {
		items := make([][]byte, total)
		for i := 0; i < total; i++ {
			items[i] = crypto.CRandBytes(crypto.HashSize)
		}

		b.Run(fmt.Sprintf("%d items", total), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = HashFromByteSlices(items)
			}
		})
	}
}
