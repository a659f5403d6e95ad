package fact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthyIsTrueAfterAWellFormedAdd(t *testing.T) {
	ns := authorityNS(1)
	j := New(ns)
	require.NoError(t, j.Add(genericFact(ns, 1, "x")))

	healthy, err := j.Healthy(context.Background())
	require.True(t, healthy)
	require.NoError(t, err)
}

func TestHealthyIsFalseAfterANamespaceMismatch(t *testing.T) {
	ns := authorityNS(1)
	j := New(ns)
	require.ErrorIs(t, j.Add(genericFact(authorityNS(2), 1, "x")), ErrNamespaceMismatch)

	healthy, err := j.Healthy(context.Background())
	require.False(t, healthy)
	require.ErrorIs(t, err, ErrNamespaceMismatch)
}

func TestHealthReportRecoversAfterASubsequentGoodAdd(t *testing.T) {
	ns := authorityNS(1)
	j := New(ns)
	require.Error(t, j.Add(genericFact(authorityNS(2), 1, "x")))
	require.NoError(t, j.Add(genericFact(ns, 1, "x")))

	report, err := j.HealthReport(context.Background())
	require.NoError(t, err)
	require.True(t, report.Healthy)
	require.Equal(t, 1, report.Details["facts"])
}
