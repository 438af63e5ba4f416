package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	require.Equal(t, 1.0, Clamp(0.5, 1, 2))
	require.Equal(t, 2.0, Clamp(3, 1, 2))
	require.Equal(t, 1.5, Clamp(1.5, 1, 2))
}

func TestNegativePiToPi(t *testing.T) {
	require.InDelta(t, 0.0, NegativePiToPi(2*math.Pi), Epsilon12)
	require.InDelta(t, -math.Pi/2, NegativePiToPi(3*math.Pi/2), Epsilon12)
	require.InDelta(t, math.Pi/4, NegativePiToPi(math.Pi/4), Epsilon12)
}

func TestIntHelpers(t *testing.T) {
	require.Equal(t, 2, IntMin(2, 5))
	require.Equal(t, 5, IntMax(2, 5))
	require.Equal(t, 8, IntPow2(3))
}
