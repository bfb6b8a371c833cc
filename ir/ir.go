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

// Package ir describes the pulse train the IR bridge emits for a value.
package ir

import (
	"fmt"
	"time"
)

const (
	// Tick is the period of the bridge's pulse timer.
	Tick      = 500 * time.Microsecond
	// CarrierHz is the modulation frequency of a mark.
	CarrierHz = 38000

	// Bits is the number of bits sent per burst, MSB first.
	Bits    = 24
	// Repeats is the number of bursts sent per value.
	Repeats = 2
)

// Lengths in ticks.
const (
	LeadIn     = 16
	BeginMark  = 8
	BeginSpace = 8
	BitMark    = 1
	ZeroSpace  = 2
	OneSpace   = 4
	EndMark    = 1
	EndSpace   = 16
)

// Pulse is a period with the carrier on (Mark) or off.
type Pulse struct {
	Mark  bool
	Ticks int
}

// Duration returns the length of p.
func (p Pulse) Duration() time.Duration {
	return time.Duration(p.Ticks) * Tick
}

func (p Pulse) String() string {
	if p.Mark {
		return fmt.Sprintf("mark %v", p.Duration())
	}
	return fmt.Sprintf("space %v", p.Duration())
}

// Pulses returns the pulse train for the low Bits bits of value.
// Adjacent periods of the same level are kept separate.
func Pulses(value uint32) []Pulse {
	ps := make([]Pulse, 0, 1+Repeats*(2+2*Bits+2))
	ps = append(ps, Pulse{Ticks: LeadIn})
	for r := 0; r < Repeats; r++ {
		ps = append(ps, Pulse{Mark: true, Ticks: BeginMark}, Pulse{Ticks: BeginSpace})
		for i := Bits - 1; i >= 0; i-- {
			space := ZeroSpace
			if (value>>uint(i))&1 != 0 {
				space = OneSpace
			}
			ps = append(ps, Pulse{Mark: true, Ticks: BitMark}, Pulse{Ticks: space})
		}
		ps = append(ps, Pulse{Mark: true, Ticks: EndMark}, Pulse{Ticks: EndSpace})
	}
	return ps
}

// Total returns the summed duration of ps.
func Total(ps []Pulse) time.Duration {
	var d time.Duration
	for _, p := range ps {
		d += p.Duration()
	}
	return d
}
