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

// Package link owns the serial connection to the IR bridge.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

const (
	// AutoPort selects the most recently connected serial device.
	AutoPort = "auto"

	DefaultPortName = "COM5"
	DefaultBaudRate = 115200
	DefaultDataBits = 8
)

// Options describes how to open the serial port.
type Options struct {
	PortName string
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
	Driver   string
	// WriteTimeout bounds Send. Zero means Send blocks until the write
	// returns.
	WriteTimeout time.Duration
}

// DefaultOptions returns the settings the bridge firmware expects:
// 115200 baud, 8 data bits, no parity, 2 stop bits.
func DefaultOptions() Options {
	return Options{
		PortName: DefaultPortName,
		BaudRate: DefaultBaudRate,
		DataBits: DefaultDataBits,
		Parity:   serial.NoParity,
		StopBits: serial.TwoStopBits,
		Driver:   DriverBugst,
	}
}

// Validate checks opts without touching the hardware.
func (o Options) Validate() error {
	if o.PortName == "" {
		return errors.New("no serial port given")
	}
	if o.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", o.BaudRate)
	}
	if o.DataBits < 5 || o.DataBits > 8 {
		return fmt.Errorf("invalid data bits %d", o.DataBits)
	}
	if _, ok := drivers[o.Driver]; !ok {
		return fmt.Errorf("unknown serial driver %q", o.Driver)
	}
	return nil
}

// Link is an open connection to the bridge.
type Link struct {
	name      string
	port      io.WriteCloser
	timeout   time.Duration
	closeOnce sync.Once
	closeErr  error
}

// Open opens the port described by opts.
func Open(opts Options) (*Link, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	name := opts.PortName
	if name == AutoPort {
		var err error
		if name, err = lastPort(); err != nil {
			return nil, err
		}
	}
	p, err := drivers[opts.Driver](name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", name, err)
	}
	log.Debug().
		Str("port", name).
		Str("driver", opts.Driver).
		Int("baud", opts.BaudRate).
		Msg("serial port open")
	l := New(p)
	l.name = name
	l.timeout = opts.WriteTimeout
	return l, nil
}

// New wraps an already open port.
func New(w io.WriteCloser) *Link {
	return &Link{name: "serial", port: w}
}

// Name returns the port name.
func (l *Link) Name() string {
	return l.name
}

// Send writes frame once. If ctx carries a deadline, or the link was
// opened with a WriteTimeout, the port is closed when it expires so the
// pending write returns.
func (l *Link) Send(ctx context.Context, frame []byte) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	if ctx.Done() == nil {
		return l.write(frame)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write to %s: %w", l.name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- l.write(frame)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		l.Close()
		return fmt.Errorf("write to %s: %w", l.name, ctx.Err())
	}
}

func (l *Link) write(frame []byte) error {
	n, err := l.port.Write(frame)
	if err != nil {
		return fmt.Errorf("write to %s: %w", l.name, err)
	}
	if n != len(frame) {
		return fmt.Errorf("write to %s: %w (%d of %d bytes)", l.name, io.ErrShortWrite, n, len(frame))
	}
	log.Debug().Str("port", l.name).Hex("frame", frame).Msg("frame sent")
	return nil
}

// Close closes the port. It is safe to call more than once.
func (l *Link) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.port.Close()
	})
	return l.closeErr
}
