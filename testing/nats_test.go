package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartEmbeddedNATS(t *testing.T) {
	ns, nc := StartEmbeddedNATS(t)

	require.NotNil(t, ns)
	require.NotNil(t, nc)
	require.True(t, nc.IsConnected())
	require.True(t, ns.ReadyForConnections(1*time.Second))

	js := NewJetStream(t, nc)
	_, err := js.AccountInfo(t.Context())
	require.NoError(t, err)
}

func TestStartEmbeddedNATS_ParallelTests(t *testing.T) {
	t.Parallel()

	for range 3 {
		t.Run("parallel", func(t *testing.T) {
			t.Parallel()

			_, nc := StartEmbeddedNATS(t)
			require.True(t, nc.IsConnected())
		})
	}
}

func TestCreateJetStreamKV(t *testing.T) {
	ctx := t.Context()
	_, nc := StartEmbeddedNATS(t)

	kv1 := CreateJetStreamKV(t, nc, "bucket-1")
	kv2 := CreateJetStreamKV(t, nc, "bucket-2")

	_, err := kv1.Put(ctx, "alice", []byte("0,1:0,1,2"))
	require.NoError(t, err)
	_, err = kv2.Put(ctx, "alice", []byte("0,1:2,1,0"))
	require.NoError(t, err)

	entry1, err := kv1.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []byte("0,1:0,1,2"), entry1.Value())

	entry2, err := kv2.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []byte("0,1:2,1,0"), entry2.Value())
}
