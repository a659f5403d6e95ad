package consensus

import (
	"context"
	"testing"

	"github.com/hxrts/aura/identity"
	"github.com/hxrts/aura/threshold"
	"github.com/stretchr/testify/require"
)

func TestHealthyIsTrueUntilFailed(t *testing.T) {
	witnesses := devices(4)
	signer := threshold.NewBLSSigner()
	id := identity.ConsensusFromHash(identity.HashFromSeed(0xcb))

	inst := NewInstance(id, identity.Hash32{}, witnesses, 3, signer, nil, 100, 500)
	require.NoError(t, inst.Execute(0))

	healthy, err := inst.Healthy(context.Background())
	require.True(t, healthy)
	require.NoError(t, err)

	inst.Tick(200) // -> Fallback
	healthy, err = inst.Healthy(context.Background())
	require.True(t, healthy)
	require.NoError(t, err)

	inst.Tick(900) // -> Failed
	healthy, err = inst.Healthy(context.Background())
	require.False(t, healthy)
	require.Error(t, err)

	report, err := inst.HealthReport(context.Background())
	require.Error(t, err)
	require.False(t, report.Healthy)
	require.Equal(t, "failed", report.Details["phase"])
}
