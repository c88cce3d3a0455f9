package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLamportsToSOL(t *testing.T) {
	assert.Equal(t, "0.024981836", LamportsToSOL(24981836))
	assert.Equal(t, "1.000000000", LamportsToSOL(1_000_000_000))
	assert.Equal(t, "0.000000000", LamportsToSOL(0))
}

func TestSOLToLamports(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"1", 1_000_000_000},
		{"0.5", 500_000_000},
		{".25", 250_000_000},
		{"0.0000000019", 1},
		{" 2.000000001 ", 2_000_000_001},
	}
	for _, tt := range tests {
		got, err := SOLToLamports(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "abc", "1.2.3", "-1", "18446744074", "18446744073.709551616", "99999999999999999999.5"} {
		_, err := SOLToLamports(bad)
		assert.Error(t, err, bad)
	}
}

func TestSafePublicKey(t *testing.T) {
	pk := SafePublicKey("11111111111111111111111111111111", zap.NewNop())
	require.NotNil(t, pk)
	assert.Equal(t, "11111111111111111111111111111111", pk.String())

	assert.Nil(t, SafePublicKey("not-base58-0OIl", zap.NewNop()))
	assert.Nil(t, SafePublicKey("", nil))
}
