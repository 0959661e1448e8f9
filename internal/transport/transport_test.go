// internal/transport/transport_test.go
package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/goburrow/serial"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"

	"github.com/tamzrod/tcm-controller/internal/tcm"
)

// ---- fake port ----

type fakePort struct {
	mu      sync.Mutex
	writes  []string
	pending bytes.Buffer
	respond func(line string) string
	closed  bool

	// emptyReads makes Read return (0, nil) instead of a timeout error.
	emptyReads bool
	// readErr, when set, replaces the timeout error once pending is drained.
	readErr  error
	writeErr error
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	line := string(p)
	f.writes = append(f.writes, line)
	if f.respond != nil {
		f.pending.WriteString(f.respond(line))
	}
	return len(p), nil
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending.Len() == 0 {
		if f.emptyReads {
			return 0, nil
		}
		if f.readErr != nil {
			return 0, f.readErr
		}
		return 0, serial.ErrTimeout
	}
	return f.pending.Read(p)
}

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func reply(resp string) func(string) string {
	return func(string) string { return resp }
}

// ---- tests ----

func TestSend_WireLineAndResponse(t *testing.T) {
	port := &fakePort{respond: reply("TC1:TCADJTEMP=21.00\r\n")}
	tr, err := New(port, Config{})
	require.NoError(t, err)

	resp, err := tr.Send("TCADJTEMP?", "TC1")
	require.NoError(t, err)
	require.Equal(t, "TC1:TCADJTEMP=21.00", resp)
	require.Equal(t, []string{"TC1:TCADJTEMP?\r"}, port.writes)
}

func TestSend_TimeoutYieldsEmpty(t *testing.T) {
	port := &fakePort{}
	tr, err := New(port, Config{})
	require.NoError(t, err)

	resp, err := tr.Send("TCACTUALTEMP?", "TC1")
	require.NoError(t, err)
	require.Equal(t, "", resp)
}

func TestSend_OSTimeoutYieldsEmpty(t *testing.T) {
	port := &fakePort{readErr: os.ErrDeadlineExceeded}
	tr, err := New(port, Config{})
	require.NoError(t, err)

	resp, err := tr.Send("TCACTUALTEMP?", "TC1")
	require.NoError(t, err)
	require.Equal(t, "", resp)
}

func TestSend_DeadPortIsAnError(t *testing.T) {
	tests := []struct {
		name string
		port *fakePort
		want error
	}{
		{name: "closed port", port: &fakePort{readErr: io.EOF}, want: io.EOF},
		{name: "closed port mid-line", port: &fakePort{respond: reply("TC1:TCACT"), readErr: io.EOF}, want: io.EOF},
		{name: "zero-byte reads", port: &fakePort{emptyReads: true}, want: io.ErrNoProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.port, Config{})
			require.NoError(t, err)

			resp, err := tr.Send("TCACTUALTEMP?", "TC1")
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, "", resp)
		})
	}
}

func TestSend_PartialLineOnTimeout(t *testing.T) {
	port := &fakePort{respond: reply("TC1:TCACTUALTEMP=19.5")}
	tr, err := New(port, Config{})
	require.NoError(t, err)

	resp, err := tr.Send("TCACTUALTEMP?", "TC1")
	require.NoError(t, err)
	require.Equal(t, "TC1:TCACTUALTEMP=19.5", resp)
}

func TestSend_AckStatus(t *testing.T) {
	tests := []struct {
		ack     string
		wantErr bool
	}{
		{ack: "CMD:TCADJTEMP=21.0 1", wantErr: false},
		{ack: "CMD:TCADJTEMP=21.0 8", wantErr: false},
		{ack: "CMD:TCADJTEMP=21.0 0", wantErr: true},
		{ack: "CMD:TCADJTEMP=21.0 3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ack, func(t *testing.T) {
			tr, err := New(&fakePort{respond: reply(tt.ack + "\r\n")}, Config{})
			require.NoError(t, err)

			resp, err := tr.Send("TCADJTEMP=21.0", "TC1")
			require.Equal(t, tt.ack, resp)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var perr *tcm.ProtocolError
			require.True(t, errors.As(err, &perr))
			require.Equal(t, tt.ack, perr.Response)
		})
	}
}

func TestSend_WriteError(t *testing.T) {
	tr, err := New(&fakePort{writeErr: errors.New("unplugged")}, Config{})
	require.NoError(t, err)

	_, err = tr.Send("TCADJTEMP?", "TC1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unplugged")
}

func TestSend_ConcurrentExchangesDoNotInterleave(t *testing.T) {
	// each response echoes the command that caused it
	port := &fakePort{respond: func(line string) string {
		return "ECHO " + strings.TrimSuffix(line, "\r") + "\r\n"
	}}
	tr, err := New(port, Config{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := fmt.Sprintf("CMD%02d?", i)
			resp, err := tr.Send(cmd, "TC1")
			if err != nil {
				errs <- err
				return
			}
			if resp != "ECHO TC1:"+cmd {
				errs <- fmt.Errorf("got %q for %s", resp, cmd)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatal(err)
	}
	require.Len(t, port.writes, 64)
}

func TestClose(t *testing.T) {
	port := &fakePort{}
	tr, err := New(port, Config{})
	require.NoError(t, err)
	require.NoError(t, tr.Close())
	require.True(t, port.closed)
}

func TestNew_RequiresPort(t *testing.T) {
	_, err := New(nil, Config{})
	require.Error(t, err)
}

// ---- discovery ----

func withPorts(t *testing.T, details []*enumerator.PortDetails, opened *fakePort) *serial.Config {
	t.Helper()

	var got serial.Config
	prevList, prevOpen := listPorts, openPort
	listPorts = func() ([]*enumerator.PortDetails, error) { return details, nil }
	openPort = func(c *serial.Config) (Port, error) {
		got = *c
		return opened, nil
	}
	t.Cleanup(func() {
		listPorts, openPort = prevList, prevOpen
	})
	return &got
}

func TestOpen_MatchesSerialNumber(t *testing.T) {
	got := withPorts(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyUSB0", IsUSB: true, SerialNumber: "OTHER"},
		{Name: "/dev/ttyUSB1", IsUSB: true, SerialNumber: "FTDI9EWB"},
	}, &fakePort{})

	tr, err := Open(SerialConfig{SerialNumber: "FTDI9EWB"})
	require.NoError(t, err)
	require.NotNil(t, tr)

	require.Equal(t, "/dev/ttyUSB1", got.Address)
	require.Equal(t, DefaultBaudRate, got.BaudRate)
	require.Equal(t, DefaultReadTimeout, got.Timeout)
	require.Equal(t, "N", got.Parity)
}

func TestOpen_DeviceNotFound(t *testing.T) {
	withPorts(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyUSB0", IsUSB: true, SerialNumber: "OTHER"},
	}, &fakePort{})

	_, err := Open(SerialConfig{SerialNumber: "FTDI9EWB"})
	var nf *DeviceNotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "FTDI9EWB", nf.SerialNumber)
}

func TestOpen_RequiresSerialNumber(t *testing.T) {
	_, err := Open(SerialConfig{})
	require.Error(t, err)
}

func TestListPorts_SkipsNil(t *testing.T) {
	withPorts(t, []*enumerator.PortDetails{
		nil,
		{Name: "/dev/ttyACM0", SerialNumber: "X1", VID: "0403", PID: "6001"},
	}, nil)

	ports, err := ListPorts()
	require.NoError(t, err)
	require.Equal(t, []PortInfo{{Name: "/dev/ttyACM0", SerialNumber: "X1", VID: "0403", PID: "6001"}}, ports)
}
