package simulator

import (
	"context"
	"testing"

	"github.com/hxrts/aura/identity"
	"github.com/stretchr/testify/require"
)

func TestSameSeedProducesSameRandomBytes(t *testing.T) {
	a := New(42)
	b := New(42)
	require.Equal(t, a.RandomBytes(16), b.RandomBytes(16))
}

func TestNextOrderKeyIsStrictlyMonotonePerAuthority(t *testing.T) {
	r := New(1)
	auth := identity.AuthorityFromSeed(1)
	first := r.NextOrderKey(auth)
	second := r.NextOrderKey(auth)
	require.True(t, first.Less(second))
}

func TestSendThenDeliverRoundTrips(t *testing.T) {
	r := New(1)
	peer := identity.AuthorityFromSeed(2)
	_, err := r.Send(context.Background(), peer, []byte("hello"), 1000)
	require.NoError(t, err)
	out := r.Deliver(peer)
	require.Equal(t, [][]byte{[]byte("hello")}, out)
}
