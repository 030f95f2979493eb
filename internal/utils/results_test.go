package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResultsSummary(t *testing.T) {
	var results Results
	results.Add("1", "admin", nil)
	results.Add("2", "bots", errors.New("missing access"))
	results.Add("3", "everyone", nil)

	require.Equal(t, 2, results.Succeeded())
	require.Len(t, results.Failed(), 1)
	require.Equal(t, "2/3 ok; failed: bots(2): missing access", results.Summary())

	results.Log(zap.NewNop(), "batch")
}

func TestResultsAllOK(t *testing.T) {
	var results Results
	results.Add("1", "a", nil)
	require.Empty(t, results.Failed())
	require.Equal(t, "1/1 ok", results.Summary())
}
