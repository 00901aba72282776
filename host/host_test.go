package host

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net/netip"
	"sync"
	"testing"
	"time"

	ic "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/require"
)

func newLocalHost(t *testing.T, opts ...HostOption) *Host {
	t.Helper()
	opts = append([]HostOption{WithAddrPort(netip.MustParseAddrPort("127.0.0.1:0"))}, opts...)
	h, err := NewHost(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

type countingObserver struct {
	mu       sync.Mutex
	sent     uint64
	received uint64
}

func (c *countingObserver) AddBytesSent(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent += n
}

func (c *countingObserver) AddBytesReceived(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received += n
}

func TestCertificate(t *testing.T) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	crt, err := createTLSCertFromKey(sk)
	require.NoError(t, err)
	crtPid, err := parsePeerIDFromCertificate(crt.Leaf)
	require.NoError(t, err)

	pubkey, err := ic.UnmarshalEd25519PublicKey(pk)
	require.NoError(t, err)
	p, err := peer.IDFromPublicKey(pubkey)
	require.NoError(t, err)
	require.Equal(t, p, crtPid)
}

func TestIdentityOption(t *testing.T) {
	_, err := NewHost(WithIdentity("not a key"))
	require.Error(t, err)

	_, err = NewHost(WithMaxFrameSize(0))
	require.Error(t, err)

	_, err = NewHost(WithIdleTimeout(0))
	require.Error(t, err)
}

func TestFrames(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	counter := &countingObserver{}
	server := newLocalHost(t, WithByteCounter(counter))
	client := newLocalHost(t)

	accepted := make(chan Connection, 1)
	server.SetPeerHandlers(func(_ peer.ID, c Connection) { accepted <- c }, nil)

	id, err := client.Connect(ctx, server.LocalAddr())
	require.NoError(t, err)
	require.Equal(t, server.ID(), id)

	conn, ok := client.Connection(id)
	require.True(t, ok)

	frames := [][]byte{[]byte("first"), {}, make([]byte, 100_000)}
	for _, f := range frames {
		require.NoError(t, conn.Send(f))
	}

	var remote Connection
	select {
	case remote = <-accepted:
	case <-ctx.Done():
		t.Fatal("server never saw the client")
	}
	for _, want := range frames {
		got, err := remote.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, len(want), len(got))
		require.Equal(t, want, got)
	}

	// and back
	require.NoError(t, remote.Send([]byte("reply")))
	got, err := conn.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("reply"), got)

	total := uint64(0)
	for _, f := range frames {
		total += uint64(frameHeaderSize + len(f))
	}
	require.Equal(t, total, server.GetBytesReceived())
	require.Equal(t, total, counter.received)
	require.Equal(t, total, client.GetBytesSent())
	require.Equal(t, uint64(frameHeaderSize+5), server.GetBytesSent())
}

func TestUniqueConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, sk, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	s := newLocalHost(t)
	h1 := newLocalHost(t, WithIdentity(sk))
	h2 := newLocalHost(t, WithIdentity(sk))

	_, err = h1.Connect(ctx, s.LocalAddr())
	require.NoError(t, err)
	_, err = h1.Connect(ctx, s.LocalAddr())
	require.ErrorIs(t, err, ErrAlreadyConnected)

	// h2 shares h1's identity, so the server refuses it
	_, err = h2.Connect(ctx, s.LocalAddr())
	if err == nil {
		require.Eventually(t, func() bool {
			_, ok := h2.Connection(s.ID())
			return !ok
		}, 5*time.Second, 10*time.Millisecond)
	}
	require.Eventually(t, func() bool { return len(s.Peers()) == 1 }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, []peer.ID{h1.ID()}, s.Peers())
}

func TestFrameTooLarge(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	server := newLocalHost(t, WithMaxFrameSize(16))
	client := newLocalHost(t)

	accepted := make(chan Connection, 1)
	server.SetPeerHandlers(func(_ peer.ID, c Connection) { accepted <- c }, nil)

	id, err := client.Connect(ctx, server.LocalAddr())
	require.NoError(t, err)
	conn, _ := client.Connection(id)
	require.NoError(t, conn.Send(make([]byte, 17)))

	remote := <-accepted
	_, err = remote.Receive(ctx)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestReceiveCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	server := newLocalHost(t)
	client := newLocalHost(t)

	id, err := client.Connect(ctx, server.LocalAddr())
	require.NoError(t, err)
	conn, _ := client.Connection(id)

	short, stop := context.WithTimeout(ctx, 50*time.Millisecond)
	defer stop()
	_, err = conn.Receive(short)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
