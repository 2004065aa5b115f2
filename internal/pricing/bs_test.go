package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ATM call with time left should carry value.
func TestBlackScholesCallBasic(t *testing.T) {
	call := BlackScholesPrice(true, 100, 100, 30.0/365.0, 0.05, 0.20)
	require.Greater(t, call, 0.0)
}

func TestBlackScholesPutCallParity(t *testing.T) {
	S, K, T, r, sigma := 100.0, 100.0, 45.0/365.0, 0.03, 0.25

	call := BlackScholesPrice(true, S, K, T, r, sigma)
	put := BlackScholesPrice(false, S, K, T, r, sigma)

	lhs := call - put
	rhs := S - K*math.Exp(-r*T)
	require.InDelta(t, rhs, lhs, 1e-6)
}

func TestBlackScholesIntrinsicFallback(t *testing.T) {
	assert.Equal(t, 10.0, BlackScholesPrice(true, 110, 100, 0, 0.05, 0.2))
	assert.Equal(t, 10.0, BlackScholesPrice(false, 90, 100, 1, 0.05, 0))
	assert.Equal(t, 0.0, BlackScholesPrice(true, 90, 100, 0, 0.05, 0.2))
}

func TestBlackScholesDeltaBounds(t *testing.T) {
	for _, spot := range []float64{50, 90, 100, 110, 200} {
		cd := BlackScholesDelta(true, spot, 100, 1, 0.05, 0.2)
		pd := BlackScholesDelta(false, spot, 100, 1, 0.05, 0.2)

		assert.True(t, cd >= 0 && cd <= 1, "call delta out of [0,1] at spot %v", spot)
		assert.True(t, pd >= -1 && pd <= 0, "put delta out of [-1,0] at spot %v", spot)
		assert.InDelta(t, 1.0, cd-pd, 1e-12, "delta parity at spot %v", spot)
	}
}

func TestBlackScholesGammaPositive(t *testing.T) {
	g := BlackScholesGamma(100, 100, 1, 0.05, 0.2)
	require.Greater(t, g, 0.0)
}
