package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	proto "github.com/gogo/protobuf/proto"
	lru "github.com/hashicorp/golang-lru"
	"github.com/libp2p/go-libp2p/core/peer"
	"gopkg.in/tomb.v2"

	"github.com/ethp2p/echelon/host"
	"github.com/ethp2p/echelon/pb"
)

// Server answers elimination requests from every connected peer. Each
// connection is served by its own goroutine, one request at a time.
type Server struct {
	settings *Settings
	engine   *Engine
	host     *host.Host
	cache    *lru.Cache // request digest -> *pb.EchelonResponse
	started  bool
	t        tomb.Tomb
}

// NewServer binds the QUIC listener described by s. Extra host options are
// applied after the ones derived from s.
func NewServer(s *Settings, opts ...host.HostOption) (*Server, error) {
	registerMetrics()

	bind, err := parseBind(s.Echelon.Bind)
	if err != nil {
		return nil, err
	}
	srv := &Server{
		settings: s,
		engine:   EngineFromSettings(s),
	}
	if s.Echelon.CacheSize > 0 {
		if srv.cache, err = lru.New(s.Echelon.CacheSize); err != nil {
			return nil, err
		}
	}

	opts = append([]host.HostOption{
		host.WithAddrPort(bind),
		host.WithMaxFrameSize(s.Echelon.MaxFrameSize),
		host.WithByteCounter(byteCounter{}),
	}, opts...)
	if srv.host, err = host.NewHost(opts...); err != nil {
		return nil, err
	}
	return srv, nil
}

// Start begins serving connected peers.
func (s *Server) Start() {
	s.started = true
	// keeps the tomb alive between connections
	s.t.Go(func() error {
		<-s.t.Dying()
		return nil
	})
	s.host.SetPeerHandlers(
		func(id peer.ID, conn host.Connection) {
			metrics.peers.Inc()
			s.t.Go(func() error {
				s.serve(id, conn)
				return nil
			})
		},
		func(id peer.ID) {
			metrics.peers.Dec()
		},
	)
	log.Infof("serving eliminations as %s on %s", s.host.ID(), s.host.LocalAddr())
}

// Stop closes every connection and waits for the serving goroutines.
func (s *Server) Stop() error {
	err := s.host.Close()
	if !s.started {
		return err
	}
	s.t.Kill(nil)
	if werr := s.t.Wait(); err == nil {
		err = werr
	}
	log.Info("server stopped")
	return err
}

func (s *Server) Addr() net.Addr {
	return s.host.LocalAddr()
}

func (s *Server) ID() peer.ID {
	return s.host.ID()
}

func (s *Server) serve(id peer.ID, conn host.Connection) {
	ctx := s.t.Context(context.Background())
	for {
		data, err := conn.Receive(ctx)
		if err != nil {
			log.Debugf("peer %s: %v", id, err)
			return
		}
		resp := s.handle(data)
		out, err := proto.Marshal(resp)
		if err != nil {
			log.Errorf("peer %s: encoding response %d: %v", id, resp.Id, err)
			return
		}
		if err := conn.Send(out); err != nil {
			log.Warnf("peer %s: %v", id, err)
			return
		}
	}
}

// handle answers one encoded request. It never fails: errors are carried
// in the response.
func (s *Server) handle(data []byte) *pb.EchelonResponse {
	start := time.Now()

	var req pb.EchelonRequest
	if err := proto.Unmarshal(data, &req); err != nil {
		recordRequest("unknown", "malformed", time.Since(start))
		return &pb.EchelonResponse{Error: fmt.Sprintf("decode request: %v", err)}
	}
	method := req.Method.String()

	key, err := digest(&req)
	if err == nil && s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			metrics.cacheHits.Inc()
			resp := *v.(*pb.EchelonResponse)
			resp.Id = req.Id
			recordRequest(method, "cached", time.Since(start))
			return &resp
		}
	}

	resp, err := s.engine.Run(&req)
	if err != nil {
		log.Warnf("request %d (%s): %v", req.Id, method, err)
		recordRequest(method, "error", time.Since(start))
		return &pb.EchelonResponse{Id: req.Id, Error: err.Error()}
	}
	if s.cache != nil && key != "" {
		s.cache.Add(key, resp)
	}
	recordRequest(method, "ok", time.Since(start))
	return resp
}

// digest identifies a request by everything but its Id.
func digest(req *pb.EchelonRequest) (string, error) {
	anon := *req
	anon.Id = 0
	data, err := proto.Marshal(&anon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return string(sum[:]), nil
}

func parseBind(bind string) (netip.AddrPort, error) {
	h, p, err := net.SplitHostPort(bind)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("bind %q: %w", bind, err)
	}
	port, err := strconv.ParseUint(p, 10, 16)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("bind %q: %w", bind, err)
	}
	addr := netip.IPv4Unspecified()
	if h != "" {
		if addr, err = netip.ParseAddr(h); err != nil {
			return netip.AddrPort{}, fmt.Errorf("bind %q: %w", bind, err)
		}
	}
	return netip.AddrPortFrom(addr, uint16(port)), nil
}
