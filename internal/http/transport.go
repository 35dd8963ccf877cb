package http

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultMaxResponseSize caps how much a single response may buffer
	DefaultMaxResponseSize int64 = 32 << 20

	readChunkSize = 4096
)

var errNoHost = errors.New("no host in URL")

// Dialer opens the TCP connection a request is sent over. *net.Dialer
// satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Transport sends one request per connection and reads the response until
// the peer closes it
type Transport struct {
	Dialer Dialer

	// MaxResponseSize limits the buffered response; zero or less disables
	// the limit
	MaxResponseSize int64
}

// NewTransport returns a Transport with a plain net.Dialer and the default
// response size limit
func NewTransport() *Transport {
	return &Transport{
		Dialer:          &net.Dialer{},
		MaxResponseSize: DefaultMaxResponseSize,
	}
}

// Send connects to target, writes payload and returns everything the peer
// sends back before closing the connection. A deadline on ctx is applied to
// the connection, and cancelling ctx aborts a blocked read or write.
func (t *Transport) Send(ctx context.Context, target Target, payload []byte) (string, TimingInfo, error) {
	timing := TimingInfo{StartTime: time.Now()}

	if target.Hostname == "" {
		return "", timing, &ConnectionError{Op: "dial", Err: errNoHost}
	}
	addr := target.Addr()

	conn, err := t.dialer().DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", timing, &ConnectionError{Op: "dial", Addr: addr, Err: err}
	}
	defer conn.Close()

	connected := time.Now()
	timing.Connect = connected.Sub(timing.StartTime)

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if err := writeAll(conn, payload); err != nil {
		return "", timing, &ConnectionError{Op: "write", Addr: addr, Err: ctxErr(ctx, err)}
	}
	sent := time.Now()
	timing.Send = sent.Sub(connected)

	data, firstByte, err := t.readAll(conn)
	if err != nil {
		if errors.Is(err, ErrResponseTooLarge) {
			return "", timing, err
		}
		return "", timing, &ConnectionError{Op: "read", Addr: addr, Err: ctxErr(ctx, err)}
	}

	done := time.Now()
	if !firstByte.IsZero() {
		timing.TimeToFirstByte = firstByte.Sub(sent)
		timing.ContentTransfer = done.Sub(firstByte)
	}
	timing.Total = done.Sub(timing.StartTime)

	return strings.ToValidUTF8(string(data), "�"), timing, nil
}

func (t *Transport) dialer() Dialer {
	if t.Dialer == nil {
		return &net.Dialer{}
	}
	return t.Dialer
}

// writeAll keeps writing until every byte of p has been accepted
func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// readAll reads fixed size chunks until the peer closes the connection and
// reports when the first byte arrived
func (t *Transport) readAll(r io.Reader) ([]byte, time.Time, error) {
	var (
		buf       bytes.Buffer
		firstByte time.Time
		chunk     = make([]byte, readChunkSize)
	)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if firstByte.IsZero() {
				firstByte = time.Now()
			}
			if t.MaxResponseSize > 0 && int64(buf.Len()+n) > t.MaxResponseSize {
				return nil, firstByte, errors.Wrapf(ErrResponseTooLarge, "limit is %d bytes", t.MaxResponseSize)
			}
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), firstByte, nil
		}
		if err != nil {
			return nil, firstByte, err
		}
	}
}

// ctxErr prefers the context's error when the context ended the operation.
// The connection deadline can fire a moment before the context notices.
func ctxErr(ctx context.Context, err error) error {
	cause := ctx.Err()
	if cause == nil && errors.Is(err, os.ErrDeadlineExceeded) {
		if _, ok := ctx.Deadline(); ok {
			cause = context.DeadlineExceeded
		}
	}
	if cause != nil {
		return errors.Wrap(cause, err.Error())
	}
	return err
}
