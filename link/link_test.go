/*
Copyright © 2023 Rob Haswell <rob@haswell.co.uk>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package link

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tarm "github.com/tarm/serial"
	"go.bug.st/serial"
)

type memPort struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	writes  int
	closes  int
	short   bool
	failErr error
}

func (p *memPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes++
	if p.failErr != nil {
		return 0, p.failErr
	}
	if p.short {
		b = b[:len(b)-1]
	}
	return p.buf.Write(b)
}

func (p *memPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	return nil
}

// stuckPort blocks every write until closed.
type stuckPort struct {
	closed chan struct{}
	once   sync.Once
}

func newStuckPort() *stuckPort {
	return &stuckPort{closed: make(chan struct{})}
}

func (p *stuckPort) Write(b []byte) (int, error) {
	<-p.closed
	return 0, io.ErrClosedPipe
}

func (p *stuckPort) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func withDriver(t *testing.T, name string, fn openFunc) {
	t.Helper()
	prev, had := drivers[name]
	drivers[name] = fn
	t.Cleanup(func() {
		if had {
			drivers[name] = prev
		} else {
			delete(drivers, name)
		}
	})
}

func withPorts(t *testing.T, ports []string, err error) {
	t.Helper()
	prev := listPorts
	listPorts = func() ([]string, error) { return ports, err }
	t.Cleanup(func() { listPorts = prev })
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, "COM5", o.PortName)
	assert.Equal(t, 115200, o.BaudRate)
	assert.Equal(t, 8, o.DataBits)
	assert.Equal(t, serial.NoParity, o.Parity)
	assert.Equal(t, serial.TwoStopBits, o.StopBits)
	assert.Equal(t, DriverBugst, o.Driver)
	assert.Zero(t, o.WriteTimeout)
	require.NoError(t, o.Validate())
}

func TestOptionsValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Options)
	}{
		{"no port", func(o *Options) { o.PortName = "" }},
		{"zero baud", func(o *Options) { o.BaudRate = 0 }},
		{"data bits", func(o *Options) { o.DataBits = 9 }},
		{"driver", func(o *Options) { o.Driver = "usb" }},
	}
	for _, tc := range testCases {
		o := DefaultOptions()
		tc.modify(&o)
		assert.Errorf(t, o.Validate(), "%s", tc.name)
	}
}

func TestOpenAndSend(t *testing.T) {
	port := &memPort{}
	var gotName string
	var gotOpts Options
	withDriver(t, "mem", func(name string, opts Options) (io.WriteCloser, error) {
		gotName, gotOpts = name, opts
		return port, nil
	})

	opts := DefaultOptions()
	opts.Driver = "mem"
	l, err := Open(opts)
	require.NoError(t, err)
	assert.Equal(t, "COM5", gotName)
	assert.Equal(t, opts, gotOpts)
	assert.Equal(t, "COM5", l.Name())

	frame := []byte("Sb\xd5\xa0\xf2\x00")
	require.NoError(t, l.Send(context.Background(), frame))
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	assert.Equal(t, frame, port.buf.Bytes())
	assert.Equal(t, 1, port.writes)
	assert.Equal(t, 1, port.closes)
}

func TestOpenError(t *testing.T) {
	withDriver(t, "mem", func(name string, opts Options) (io.WriteCloser, error) {
		return nil, errors.New("access denied")
	})
	opts := DefaultOptions()
	opts.Driver = "mem"
	_, err := Open(opts)
	assert.EqualError(t, err, "failed to open port COM5: access denied")
}

func TestOpenAutoPort(t *testing.T) {
	withDriver(t, "mem", func(name string, opts Options) (io.WriteCloser, error) {
		return &memPort{}, nil
	})
	opts := DefaultOptions()
	opts.Driver = "mem"
	opts.PortName = AutoPort

	withPorts(t, []string{"/dev/ttyS0", "/dev/ttyUSB0"}, nil)
	l, err := Open(opts)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", l.Name())

	withPorts(t, nil, nil)
	_, err = Open(opts)
	assert.EqualError(t, err, "no serial ports found")

	withPorts(t, nil, errors.New("boom"))
	_, err = Open(opts)
	assert.EqualError(t, err, "failed to list serial ports: boom")
}

func TestSendErrors(t *testing.T) {
	frame := []byte("Sb\x00\x00\x00\x00")

	err := New(&memPort{short: true}).Send(context.Background(), frame)
	assert.ErrorIs(t, err, io.ErrShortWrite)

	ioErr := errors.New("device unplugged")
	err = New(&memPort{failErr: ioErr}).Send(context.Background(), frame)
	assert.ErrorIs(t, err, ioErr)
}

func TestSendCancelled(t *testing.T) {
	port := &memPort{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(port).Send(ctx, []byte("Sb"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, port.writes)
}

func TestSendTimeout(t *testing.T) {
	port := newStuckPort()
	l := New(port)
	l.timeout = 20 * time.Millisecond

	start := time.Now()
	err := l.Send(context.Background(), []byte("Sb\x00\x00\x00\x00"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	select {
	case <-port.closed:
	default:
		t.Fatal("port not closed after timeout")
	}
	assert.NoError(t, l.Close())
}

func TestSendWithinDeadline(t *testing.T) {
	port := &memPort{}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, New(port).Send(ctx, []byte("Sb\x01\x00\x00\x00")))
	assert.Equal(t, []byte("Sb\x01\x00\x00\x00"), port.buf.Bytes())
}

func TestTarmConfig(t *testing.T) {
	c, err := tarmConfig("COM5", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, &tarm.Config{
		Name:     "COM5",
		Baud:     115200,
		Size:     8,
		Parity:   tarm.ParityNone,
		StopBits: tarm.Stop2,
	}, c)

	opts := DefaultOptions()
	opts.Parity = serial.EvenParity
	opts.StopBits = serial.OneStopBit
	c, err = tarmConfig("/dev/ttyUSB0", opts)
	require.NoError(t, err)
	assert.Equal(t, tarm.ParityEven, c.Parity)
	assert.Equal(t, tarm.Stop1, c.StopBits)
}

func TestDrivers(t *testing.T) {
	assert.Equal(t, []string{DriverBugst, DriverTarm}, Drivers())
}

func TestPorts(t *testing.T) {
	withPorts(t, []string{"COM3"}, nil)
	ports, err := Ports()
	require.NoError(t, err)
	assert.Equal(t, []string{"COM3"}, ports)
}
