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
	"errors"
	"fmt"
	"io"
	"sort"

	tarm "github.com/tarm/serial"
	"go.bug.st/serial"
)

const (
	DriverBugst = "bugst"
	DriverTarm  = "tarm"
)

type openFunc func(name string, opts Options) (io.WriteCloser, error)

var drivers = map[string]openFunc{
	DriverBugst: openBugst,
	DriverTarm:  openTarm,
}

// listPorts is replaced in tests.
var listPorts = serial.GetPortsList

// Drivers returns the names of the available serial drivers.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ports lists the serial ports present on the system.
func Ports() ([]string, error) {
	return listPorts()
}

// lastPort picks the most recently connected device.
func lastPort() (string, error) {
	ports, err := listPorts()
	if err != nil {
		return "", fmt.Errorf("failed to list serial ports: %w", err)
	}
	if len(ports) == 0 {
		return "", errors.New("no serial ports found")
	}
	return ports[len(ports)-1], nil
}

func openBugst(name string, opts Options) (io.WriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		Parity:   opts.Parity,
		StopBits: opts.StopBits,
	}
	return serial.Open(name, mode)
}

func openTarm(name string, opts Options) (io.WriteCloser, error) {
	c, err := tarmConfig(name, opts)
	if err != nil {
		return nil, err
	}
	p, err := tarm.OpenPort(c)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func tarmConfig(name string, opts Options) (*tarm.Config, error) {
	c := &tarm.Config{
		Name: name,
		Baud: opts.BaudRate,
		Size: byte(opts.DataBits),
	}
	switch opts.Parity {
	case serial.NoParity:
		c.Parity = tarm.ParityNone
	case serial.OddParity:
		c.Parity = tarm.ParityOdd
	case serial.EvenParity:
		c.Parity = tarm.ParityEven
	case serial.MarkParity:
		c.Parity = tarm.ParityMark
	case serial.SpaceParity:
		c.Parity = tarm.ParitySpace
	default:
		return nil, fmt.Errorf("unsupported parity %v", opts.Parity)
	}
	switch opts.StopBits {
	case serial.OneStopBit:
		c.StopBits = tarm.Stop1
	case serial.OnePointFiveStopBits:
		c.StopBits = tarm.Stop1Half
	case serial.TwoStopBits:
		c.StopBits = tarm.Stop2
	default:
		return nil, fmt.Errorf("unsupported stop bits %v", opts.StopBits)
	}
	return c, nil
}
