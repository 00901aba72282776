package service

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"testing"
	"time"

	proto "github.com/gogo/protobuf/proto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ethp2p/echelon/matrix"
	"github.com/ethp2p/echelon/pb"
	"github.com/ethp2p/echelon/wire"
)

func startServer(t *testing.T, configure func(*Settings)) *Server {
	t.Helper()
	s := DefaultSettings()
	s.Echelon.Bind = "127.0.0.1:0"
	if configure != nil {
		configure(&s)
	}
	srv, err := NewServer(&s)
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() { srv.Stop() })
	return srv
}

func dialServer(t *testing.T, srv *Server) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, err := Dial(ctx, srv.Addr().String())
	require.NoError(t, err)
	require.Equal(t, srv.ID(), c.Server())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRemoteMatchesLocal(t *testing.T) {
	srv := startServer(t, nil)
	c := dialServer(t, srv)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rng := rand.New(rand.NewSource(7))
	G := randomDense(rng, gf101, 12, 20, 0.3)
	B := matrix.BitMatrixFromDense(randomDense(rng, gf2, 30, 200, 0.05))

	reqs := []*pb.EchelonRequest{
		request(t, gf101, G, pb.EchelonRequest_DENSE),
		request(t, gf101, matrix.SparseFromDense(G), pb.EchelonRequest_STANDARD),
		request(t, gf2, B, pb.EchelonRequest_DENSE),
		request(t, gf2, matrix.HybridFromBitMatrix(B), pb.EchelonRequest_STANDARD),
	}
	reqs[1].Reduced = true
	reqs[1].Transform = true
	reqs[3].StartRow = 2

	for _, req := range reqs {
		remote, err := c.Eliminate(ctx, req)
		require.NoError(t, err)
		require.Equal(t, req.Id, remote.Id)

		local, err := (&Engine{}).Run(req)
		require.NoError(t, err)
		require.True(t, proto.Equal(local, remote), "local %v\nremote %v", local, remote)
	}
}

func TestServerBounds(t *testing.T) {
	srv := startServer(t, func(s *Settings) {
		s.Echelon.MaxRows = 4
	})
	c := dialServer(t, srv)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rng := rand.New(rand.NewSource(8))
	before := testutil.ToFloat64(metrics.requests.WithLabelValues("STANDARD", "error"))

	resp, err := c.Eliminate(ctx, request(t, gf101, randomDense(rng, gf101, 5, 3, 0.5), pb.EchelonRequest_STANDARD))
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Contains(t, remote.Message, "exceeds server bounds")
	require.Equal(t, resp.Error, remote.Message)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.requests.WithLabelValues("STANDARD", "error")))

	// the connection stays usable
	resp, err = c.Eliminate(ctx, request(t, gf101, randomDense(rng, gf101, 4, 3, 0.5), pb.EchelonRequest_STANDARD))
	require.NoError(t, err)
	require.Empty(t, resp.Error)
}

func TestServerCache(t *testing.T) {
	srv := startServer(t, func(s *Settings) {
		s.Echelon.CacheSize = 2
	})
	c := dialServer(t, srv)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rng := rand.New(rand.NewSource(9))
	req := request(t, gf101, randomDense(rng, gf101, 6, 6, 0.5), pb.EchelonRequest_DENSE)
	hits := testutil.ToFloat64(metrics.cacheHits)

	first, err := c.Eliminate(ctx, req)
	require.NoError(t, err)
	second, err := c.Eliminate(ctx, req)
	require.NoError(t, err)

	require.Equal(t, hits+1, testutil.ToFloat64(metrics.cacheHits))
	require.NotEqual(t, first.Id, second.Id)
	second.Id = first.Id
	require.True(t, proto.Equal(first, second))
}

func TestServerMalformed(t *testing.T) {
	srv := startServer(t, nil)

	resp := srv.handle([]byte{0xff, 0xff, 0xff})
	require.Contains(t, resp.Error, "decode request")

	resp = srv.handle(nil)
	require.Contains(t, resp.Error, wire.ErrMalformed.Error())
}

func TestMetricsServer(t *testing.T) {
	m := NewMetricsServer(MetricsConfig{Bind: "127.0.0.1:0", Path: "/metrics"})
	addr, err := m.Start()
	require.NoError(t, err)
	defer m.Stop()

	metrics.cacheHits.Add(0)
	res, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "echelon_cache_hits_total"))
}

func TestMetricsObserver(t *testing.T) {
	o := newMetricsObserver()
	before := testutil.ToFloat64(metrics.rows.WithLabelValues("standard"))
	o.Progress("standard", 2)
	o.Progress("standard", 4)
	require.Equal(t, before+4, testutil.ToFloat64(metrics.rows.WithLabelValues("standard")))
}

func TestServerServesPeersConnectedBeforeStart(t *testing.T) {
	s := DefaultSettings()
	s.Echelon.Bind = "127.0.0.1:0"
	srv, err := NewServer(&s)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Stop() })

	c := dialServer(t, srv)
	require.Eventually(t, func() bool {
		return len(srv.host.Peers()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	srv.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rng := rand.New(rand.NewSource(9))
	req := request(t, gf101, randomDense(rng, gf101, 4, 6, 0.5), pb.EchelonRequest_STANDARD)
	resp, err := c.Eliminate(ctx, req)
	require.NoError(t, err)
	require.Empty(t, resp.Error)
}
