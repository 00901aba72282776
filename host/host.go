// Package host runs QUIC endpoints identified by libp2p peer IDs. Peers
// exchange length-prefixed frames over one stream in each direction.
package host

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	logging "github.com/ipfs/go-log/v2"
	ic "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	quic "github.com/quic-go/quic-go"
)

var log = logging.Logger("host")

const (
	DefaultPort = 7441

	// DefaultMaxFrameSize bounds a single received frame.
	DefaultMaxFrameSize = 64 << 20

	// DefaultIdleTimeout closes connections with no traffic.
	DefaultIdleTimeout = 5 * time.Minute
)

// ErrAlreadyConnected is returned when a connection to the same peer exists.
var ErrAlreadyConnected = errors.New("host: already connected to peer")

// HostOption configures a Host during construction
type HostOption func(*Host) error

// Host manages QUIC connections to other hosts
type Host struct {
	ctx       context.Context
	cancel    context.CancelFunc
	waitGroup sync.WaitGroup

	mutex       sync.Mutex // protects connections and handlers
	connections map[peer.ID]Connection

	certificate  *tls.Certificate
	endpoint     *net.UDPAddr
	peerID       peer.ID
	privateKey   crypto.PrivateKey
	maxFrameSize int
	idleTimeout  time.Duration

	udpConn   *net.UDPConn
	transport *quic.Transport
	listener  *quic.Listener

	bytesSent     atomic.Uint64
	bytesReceived atomic.Uint64
	counter       ByteCounter // optional external counter

	addHandler    AddPeerHandler
	removeHandler RemovePeerHandler
}

// AddPeerHandler is called when a new peer connects. It runs with the
// host's peer set locked and must not block.
type AddPeerHandler func(peer.ID, Connection)

// RemovePeerHandler is called when a peer disconnects
type RemovePeerHandler func(peer.ID)

// NewHost creates a Host and starts accepting connections.
func NewHost(opts ...HostOption) (*Host, error) {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Host{
		ctx:    ctx,
		cancel: cancel,

		endpoint:     net.UDPAddrFromAddrPort(netip.AddrPortFrom(netip.IPv4Unspecified(), DefaultPort)),
		connections:  make(map[peer.ID]Connection),
		maxFrameSize: DefaultMaxFrameSize,
		idleTimeout:  DefaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(h); err != nil {
			cancel()
			return nil, err
		}
	}

	if h.privateKey == nil {
		_, privateKey, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			cancel()
			return nil, err
		}
		if err := WithIdentity(privateKey)(h); err != nil {
			cancel()
			return nil, err
		}
	}

	var err error
	if h.certificate, err = createTLSCertFromKey(h.privateKey); err != nil {
		cancel()
		return nil, err
	}

	h.udpConn, err = net.ListenUDP("udp", h.endpoint)
	if err != nil {
		cancel()
		return nil, err
	}
	h.transport = &quic.Transport{Conn: h.udpConn}

	h.listener, err = h.transport.Listen(h.serverTLSConfig(), h.quicConfig())
	if err != nil {
		h.transport.Close()
		h.udpConn.Close()
		cancel()
		return nil, err
	}

	h.waitGroup.Add(1)
	go h.acceptLoop()

	return h, nil
}

func (h *Host) quicConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:  h.idleTimeout,
		KeepAlivePeriod: h.idleTimeout / 2,
	}
}

// Connect dials addr and returns the peer ID proven by its certificate.
func (h *Host) Connect(ctx context.Context, addr net.Addr) (peer.ID, error) {
	// cancel the dial when either the host or the caller is done
	dialCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(h.ctx, cancel)
	defer stop()
	defer cancel()

	conn, err := h.transport.Dial(dialCtx, addr, h.clientTLSConfig(), h.quicConfig())
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", addr, err)
	}

	peerID, err := h.handleConnection(conn)
	if err != nil {
		conn.CloseWithError(0, err.Error())
		return "", err
	}
	log.Infof("connected to %s at %s", peerID, addr)
	return peerID, nil
}

// Connection returns the live connection to p.
func (h *Host) Connection(p peer.ID) (Connection, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	c, ok := h.connections[p]
	return c, ok
}

// Peers lists the connected peers.
func (h *Host) Peers() []peer.ID {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	out := make([]peer.ID, 0, len(h.connections))
	for p := range h.connections {
		out = append(out, p)
	}
	return out
}

func (h *Host) LocalAddr() net.Addr {
	return h.transport.Conn.LocalAddr()
}

func (h *Host) ID() peer.ID {
	return h.peerID
}

// Close stops accepting, closes every connection and waits for the host's
// goroutines.
func (h *Host) Close() error {
	h.cancel()
	err := h.transport.Close()
	if cerr := h.udpConn.Close(); err == nil {
		err = cerr
	}
	h.waitGroup.Wait()
	return err
}

// SetPeerHandlers registers callbacks for peer connection events and
// replays the peers already connected.
func (h *Host) SetPeerHandlers(addHandler AddPeerHandler, removeHandler RemovePeerHandler) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.addHandler = addHandler
	h.removeHandler = removeHandler

	if h.addHandler == nil {
		return
	}
	for peerID, conn := range h.connections {
		h.addHandler(peerID, conn)
	}
}

// handleConnection registers an incoming or outgoing connection.
func (h *Host) handleConnection(conn quic.Connection) (peer.ID, error) {
	certs := conn.ConnectionState().TLS.PeerCertificates
	if len(certs) == 0 {
		return "", errors.New("peer sent no certificate")
	}
	peerID, err := parsePeerIDFromCertificate(certs[0])
	if err != nil {
		return "", fmt.Errorf("failed parsing for a peer ID from the TLS certificate: %w", err)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, exists := h.connections[peerID]; exists {
		return "", fmt.Errorf("%w %s", ErrAlreadyConnected, peerID)
	}

	wrapped := newStreamConnection(conn, h, h.maxFrameSize)
	h.connections[peerID] = wrapped
	if h.addHandler != nil {
		h.addHandler(peerID, wrapped)
	}

	h.waitGroup.Add(1)
	go func() {
		defer h.waitGroup.Done()
		<-conn.Context().Done()

		h.mutex.Lock()
		delete(h.connections, peerID)
		if h.removeHandler != nil {
			h.removeHandler(peerID)
		}
		h.mutex.Unlock()
		log.Debugf("connection to %s closed", peerID)
	}()
	return peerID, nil
}

func (h *Host) acceptLoop() {
	defer h.waitGroup.Done()

	log.Infof("listening on %s", h.LocalAddr())
	log.Infof("peer ID: %s", h.peerID)

	for {
		conn, err := h.listener.Accept(h.ctx)
		if err != nil {
			if h.ctx.Err() == nil {
				log.Warnf("listener accept error: %v", err)
			}
			return
		}

		peerID, err := h.handleConnection(conn)
		if err != nil {
			log.Warnf("failed to handle connection: %v", err)
			conn.CloseWithError(0, err.Error())
			continue
		}
		log.Infof("accepted connection from %s at %s", peerID, conn.RemoteAddr())
	}
}

// AddBytesSent counts bytes written to any connection.
func (h *Host) AddBytesSent(n uint64) {
	h.bytesSent.Add(n)
	if h.counter != nil {
		h.counter.AddBytesSent(n)
	}
}

// AddBytesReceived counts bytes read from any connection.
func (h *Host) AddBytesReceived(n uint64) {
	h.bytesReceived.Add(n)
	if h.counter != nil {
		h.counter.AddBytesReceived(n)
	}
}

// GetBytesSent returns the total bytes sent
func (h *Host) GetBytesSent() uint64 {
	return h.bytesSent.Load()
}

// GetBytesReceived returns the total bytes received
func (h *Host) GetBytesReceived() uint64 {
	return h.bytesReceived.Load()
}

func WithAddrPort(ep netip.AddrPort) HostOption {
	return func(h *Host) error {
		h.endpoint = net.UDPAddrFromAddrPort(ep)
		return nil
	}
}

// WithMaxFrameSize bounds the frames a connection accepts.
func WithMaxFrameSize(n int) HostOption {
	return func(h *Host) error {
		if n <= 0 {
			return fmt.Errorf("max frame size must be positive, got %d", n)
		}
		h.maxFrameSize = n
		return nil
	}
}

// WithIdleTimeout sets how long a silent connection stays open.
func WithIdleTimeout(d time.Duration) HostOption {
	return func(h *Host) error {
		if d <= 0 {
			return fmt.Errorf("idle timeout must be positive, got %s", d)
		}
		h.idleTimeout = d
		return nil
	}
}

// WithByteCounter forwards traffic counts to c as well.
func WithByteCounter(c ByteCounter) HostOption {
	return func(h *Host) error {
		h.counter = c
		return nil
	}
}

// WithIdentity sets the host's identity from a private key
func WithIdentity(privateKey crypto.PrivateKey) HostOption {
	return func(h *Host) error {
		key, ok := privateKey.(ed25519.PrivateKey)
		if !ok {
			return fmt.Errorf("unsupported key type: %T", privateKey)
		}
		privkey, err := ic.UnmarshalEd25519PrivateKey(key)
		if err != nil {
			return err
		}
		peerID, err := peer.IDFromPublicKey(privkey.GetPublic())
		if err != nil {
			return err
		}

		h.privateKey = privateKey
		h.peerID = peerID
		return nil
	}
}
