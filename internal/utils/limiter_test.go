package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeyedLimiter(t *testing.T) {
	limiter := NewKeyedLimiter(1, 2)
	base := time.Unix(1_700_000_000, 0)

	require.True(t, limiter.AllowAt("u1", base))
	require.True(t, limiter.AllowAt("u1", base))
	require.False(t, limiter.AllowAt("u1", base), "burst exhausted")
	require.True(t, limiter.AllowAt("u2", base), "keys are independent")

	require.True(t, limiter.AllowAt("u1", base.Add(time.Second)), "token refilled")
}
