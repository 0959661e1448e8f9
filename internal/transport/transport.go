// internal/transport/transport.go
package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/serial"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/tcm-controller/internal/logger"
	"github.com/tamzrod/tcm-controller/internal/tcm"
)

// DefaultReadTimeout bounds one response read.
const DefaultReadTimeout = 500 * time.Millisecond

// Port is the byte channel the transport drives.
type Port interface {
	io.ReadWriteCloser
}

// Transport serializes command/response exchanges on one Port.
// The write and its read form one critical section.
type Transport struct {
	mu      sync.Mutex
	port    Port
	r       *bufio.Reader
	timeout time.Duration
	log     *logrus.Entry
}

// Config is the runtime config of an already opened transport.
type Config struct {
	Log         *logrus.Logger
	ReadTimeout time.Duration
}

// New wraps an open port.
func New(port Port, cfg Config) (*Transport, error) {
	if port == nil {
		return nil, errors.New("transport: port required")
	}
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	return &Transport{
		port:    port,
		r:       bufio.NewReader(port),
		timeout: cfg.ReadTimeout,
		log: cfg.Log.WithFields(logrus.Fields{
			"module": "transport",
			"scope":  "serial",
		}),
	}, nil
}

// Send writes "<module>:<command>\r" and reads one line back.
// A read that times out yields whatever arrived, possibly "".
// An ack frame with a failure status yields *tcm.ProtocolError.
func (t *Transport) Send(command, module string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := tcm.Line(module, command)
	if err := writeAll(t.port, []byte(line)); err != nil {
		return "", fmt.Errorf("transport: write %q: %w", strings.TrimSpace(line), err)
	}

	raw, err := t.readLine()
	if err != nil {
		return "", fmt.Errorf("transport: read: %w", err)
	}
	resp := strings.TrimSpace(raw)

	t.log.Debugf("tx=%q rx=%q", strings.TrimSpace(line), resp)

	if err := tcm.CheckAck(resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Close releases the port.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port.Close()
}

// readLine reads up to and including '\n'. It stops early, without error,
// when the port times out or the per-call deadline passes. Any other read
// error is returned.
func (t *Transport) readLine() (string, error) {
	deadline := time.Now().Add(t.timeout)

	var sb strings.Builder
	for {
		b, err := t.r.ReadByte()
		if err == nil {
			sb.WriteByte(b)
			if b == '\n' {
				return sb.String(), nil
			}
		} else if isTimeout(err) {
			return sb.String(), nil
		} else {
			return sb.String(), err
		}

		if time.Now().After(deadline) {
			return sb.String(), nil
		}
	}
}

// isTimeout reports read outcomes that mean "nothing more arrived in time".
// io.EOF and io.ErrNoProgress are not timeouts: a closed or unplugged port
// reports them.
func isTimeout(err error) bool {
	return errors.Is(err, serial.ErrTimeout) || os.IsTimeout(err)
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		b = b[n:]
	}
	return nil
}
