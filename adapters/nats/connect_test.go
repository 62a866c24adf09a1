package nats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNats_Connect(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}

	connect := ReuseConnection(NewTestContainer(t))
	nc1, disconnect1, err := connect()
	require.NoError(t, err)
	require.NotNil(t, nc1)
	require.Equal(t, "CONNECTED", nc1.Status().String())

	nc2, disconnect2, err := connect()
	require.NoError(t, err)
	require.Same(t, nc1, nc2)

	disconnect1()
	require.Equal(t, "CONNECTED", nc2.Status().String())
	disconnect2()

	require.Equal(t, "CLOSED", nc1.Status().String())

	nc3, disconnect3, err := connect()
	require.NoError(t, err)
	require.NotSame(t, nc1, nc3)
	require.Equal(t, "CONNECTED", nc3.Status().String())
	disconnect3()
}
