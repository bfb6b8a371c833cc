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
package code

import "encoding/binary"

type recvState int

const (
	recvIdle recvState = iota // waiting for 'S'
	recvS                     // got 'S', waiting for 'b'
	recvHeader                // got "Sb", waiting for byte 0
	recv1
	recv2
	recv3
)

// Receiver reassembles values from a byte stream the same way the bridge
// firmware does. The zero value is ready to use.
type Receiver struct {
	state recvState
	value uint32
}

// Receive consumes one byte. It returns the value and true when b completes
// a frame.
func (r *Receiver) Receive(b byte) (uint32, bool) {
	switch r.state {
	case recvIdle:
		if b == Header[0] {
			r.state = recvS
		}
	case recvS:
		if b == Header[1] {
			r.state = recvHeader
		} else {
			r.state = recvIdle
		}
	case recvHeader:
		r.value = uint32(b)
		r.state = recv1
	case recv1:
		r.value |= uint32(b) << 8
		r.state = recv2
	case recv2:
		r.value |= uint32(b) << 16
		r.state = recv3
	case recv3:
		r.value |= uint32(b) << 24
		r.state = recvIdle
		return r.value, true
	}
	return 0, false
}

// Reset drops any partially received frame.
func (r *Receiver) Reset() {
	r.state, r.value = recvIdle, 0
}

// Scan feeds stream through a fresh Receiver and returns every value it
// completes.
func Scan(stream []byte) []uint32 {
	var (
		r    Receiver
		vals []uint32
	)
	for _, b := range stream {
		if v, ok := r.Receive(b); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// Decode parses exactly one frame back into its Code.
func Decode(f []byte) (Code, error) {
	if len(f) != FrameLen {
		return "", &FrameError{Frame: f, Reason: "wrong length"}
	}
	if f[0] != Header[0] || f[1] != Header[1] {
		return "", &FrameError{Frame: f, Reason: "missing Sb header"}
	}
	v := binary.LittleEndian.Uint32(f[2:])
	c, err := FromPayload(v)
	if err != nil {
		return "", &FrameError{Frame: f, Reason: err.Error()}
	}
	return c, nil
}
