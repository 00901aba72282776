package host

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	quic "github.com/quic-go/quic-go"
)

// ErrFrameTooLarge is returned for a frame above the host's limit. The
// connection cannot be used afterwards.
var ErrFrameTooLarge = errors.New("host: frame too large")

const frameHeaderSize = 4

type Sender interface {
	Send([]byte) error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

type Receiver interface {
	Receive(context.Context) ([]byte, error)

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// Connection carries whole frames in both directions. Frames arrive in
// the order they were sent.
type Connection interface {
	Sender
	Receiver

	// Close closes the underlying connection
	Close() error
}

// ByteCounter is an interface for tracking sent/received bytes
type ByteCounter interface {
	AddBytesSent(n uint64)
	AddBytesReceived(n uint64)
}

// streamConnection sends on a stream it opens and receives on the first
// stream the peer opens. Each frame is a 4-byte big-endian length followed
// by the payload.
type streamConnection struct {
	conn    quic.Connection
	counter ByteCounter
	maxSize int

	sendMutex  sync.Mutex
	sendStream quic.Stream

	recvMutex  sync.Mutex
	recvStream quic.Stream
	recvReady  chan struct{} // closed once recvStream is set
}

func newStreamConnection(conn quic.Connection, counter ByteCounter, maxSize int) *streamConnection {
	sc := &streamConnection{
		conn:      conn,
		counter:   counter,
		maxSize:   maxSize,
		recvReady: make(chan struct{}),
	}
	go sc.acceptStream()
	return sc
}

func (sc *streamConnection) acceptStream() {
	stream, err := sc.conn.AcceptStream(sc.conn.Context())
	if err != nil {
		return
	}
	sc.recvStream = stream
	close(sc.recvReady)
}

func (sc *streamConnection) Send(buf []byte) error {
	sc.sendMutex.Lock()
	defer sc.sendMutex.Unlock()

	if sc.sendStream == nil {
		stream, err := sc.conn.OpenStreamSync(sc.conn.Context())
		if err != nil {
			return err
		}
		sc.sendStream = stream
	}

	frame := make([]byte, frameHeaderSize+len(buf))
	binary.BigEndian.PutUint32(frame, uint32(len(buf)))
	copy(frame[frameHeaderSize:], buf)
	if _, err := sc.sendStream.Write(frame); err != nil {
		return err
	}
	if sc.counter != nil {
		sc.counter.AddBytesSent(uint64(len(frame)))
	}
	return nil
}

// Receive returns the next frame. If ctx ends while a frame is being read
// the stream is left mid-frame and the connection should be closed.
func (sc *streamConnection) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-sc.recvReady:
	case <-sc.conn.Context().Done():
		return nil, context.Cause(sc.conn.Context())
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	sc.recvMutex.Lock()
	defer sc.recvMutex.Unlock()

	stop := context.AfterFunc(ctx, func() {
		sc.recvStream.SetReadDeadline(time.Now())
	})
	defer func() {
		if !stop() {
			sc.recvStream.SetReadDeadline(time.Time{})
		}
	}()

	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(sc.recvStream, header[:]); err != nil {
		return nil, sc.readError(ctx, err)
	}
	length := binary.BigEndian.Uint32(header[:])
	if uint64(length) > uint64(sc.maxSize) {
		sc.conn.CloseWithError(1, "frame too large")
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLarge, length, sc.maxSize)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(sc.recvStream, buf); err != nil {
		return nil, sc.readError(ctx, err)
	}
	if sc.counter != nil {
		sc.counter.AddBytesReceived(uint64(frameHeaderSize + len(buf)))
	}
	return buf, nil
}

func (sc *streamConnection) readError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (sc *streamConnection) LocalAddr() net.Addr {
	return sc.conn.LocalAddr()
}

func (sc *streamConnection) RemoteAddr() net.Addr {
	return sc.conn.RemoteAddr()
}

func (sc *streamConnection) Close() error {
	return sc.conn.CloseWithError(0, "")
}
