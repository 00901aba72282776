package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"

	proto "github.com/gogo/protobuf/proto"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/ethp2p/echelon/host"
	"github.com/ethp2p/echelon/pb"
)

// RemoteError is an error reported by the server in a response.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "remote: " + e.Message
}

// Client sends requests over one connection and waits for each answer
// before sending the next.
type Client struct {
	host   *host.Host
	owned  bool
	server peer.ID

	mu     sync.Mutex
	conn   host.Connection
	nextID uint64
	broken error
}

// Dial starts a client host on an ephemeral port and connects it to addr.
func Dial(ctx context.Context, addr string, opts ...host.HostOption) (*Client, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	opts = append([]host.HostOption{
		host.WithAddrPort(netip.AddrPortFrom(netip.IPv4Unspecified(), 0)),
	}, opts...)
	h, err := host.NewHost(opts...)
	if err != nil {
		return nil, err
	}
	id, err := h.Connect(ctx, raddr)
	if err != nil {
		h.Close()
		return nil, err
	}
	c, err := NewClient(h, id)
	if err != nil {
		h.Close()
		return nil, err
	}
	c.owned = true
	return c, nil
}

// NewClient uses the existing connection from h to server.
func NewClient(h *host.Host, server peer.ID) (*Client, error) {
	conn, ok := h.Connection(server)
	if !ok {
		return nil, fmt.Errorf("not connected to %s", server)
	}
	return &Client{host: h, server: server, conn: conn}, nil
}

// Server returns the peer ID of the server.
func (c *Client) Server() peer.ID {
	return c.server
}

// Eliminate sends req and returns the matching response. The request Id is
// assigned by the client. A response carrying an error is returned along
// with a *RemoteError. If ctx ends while waiting the connection is closed.
func (c *Client) Eliminate(ctx context.Context, req *pb.EchelonRequest) (*pb.EchelonResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken != nil {
		return nil, c.broken
	}
	c.nextID++
	req.Id = c.nextID

	data, err := proto.Marshal(req)
	if err != nil {
		return nil, err
	}
	if err := c.conn.Send(data); err != nil {
		return nil, c.fail(err)
	}
	data, err = c.conn.Receive(ctx)
	if err != nil {
		return nil, c.fail(err)
	}

	var resp pb.EchelonResponse
	if err := proto.Unmarshal(data, &resp); err != nil {
		return nil, c.fail(fmt.Errorf("decode response: %w", err))
	}
	if resp.Error != "" {
		return &resp, &RemoteError{Message: resp.Error}
	}
	if resp.Id != req.Id {
		return nil, c.fail(fmt.Errorf("response %d to request %d", resp.Id, req.Id))
	}
	return &resp, nil
}

// fail closes the connection after an error that leaves it out of step.
func (c *Client) fail(err error) error {
	c.broken = errors.Join(errors.New("client connection closed"), err)
	c.conn.Close()
	return err
}

// Close closes the connection, and the host if Dial created it.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken == nil {
		c.broken = errors.New("client closed")
		c.conn.Close()
	}
	if c.owned {
		return c.host.Close()
	}
	return nil
}
