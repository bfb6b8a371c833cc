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

// Package code converts TCL remote-control codes between their textual
// form and the serial frame understood by the IR bridge firmware.
//
// A Code is 26 characters: a 'B' start marker, 24 bits written as '0' or
// '1' and an 'E' end marker. The bridge expects the 24-bit value as
//
//	'S' 'b' b0 b1 b2 b3
//
// where b0..b3 is the value as a little-endian uint32.
package code

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"unicode/utf8"
)

const (
	// CodeLen is the length of a Code including both markers.
	CodeLen     = 26
	// PayloadBits is the number of bits carried between the markers.
	PayloadBits = 24
	// FrameLen is the length of an encoded Frame.
	FrameLen    = 6

	// MaxPayload is the largest value a Code can carry.
	MaxPayload = 1<<PayloadBits - 1
)

// Header is the two byte marker every Frame starts with.
var Header = [2]byte{'S', 'b'}

// Code is the textual representation of one remote-control command.
type Code string

// Known commands of the TCL remote.
const (
	VolumeUp   Code = "B111100101111000011010000E"
	VolumeDown Code = "B111100101110000011010001E"
	Power      Code = "B111100101010000011010101E"
	Up         Code = "B111101011001000010100110E"
	Down       Code = "B111101011000000010100111E"
	OK         Code = "B111111110100000000001011E"
	Left       Code = "B111101010110000010101001E"
	Right      Code = "B111101010111000010101000E"
	Source     Code = "B111110100011000001011100E"
)

// Frame is the binary packet written to the serial line.
type Frame []byte

// String renders the frame as uppercase hex.
func (f Frame) String() string {
	return fmt.Sprintf("%X", []byte(f))
}

// Payload parses the bits between the markers. The markers themselves are
// not checked. Length is counted in characters, not bytes.
func (c Code) Payload() (uint32, error) {
	if n := utf8.RuneCountInString(string(c)); n != CodeLen {
		return 0, &PreconditionError{Code: string(c), Len: n}
	}
	r := []rune(string(c))
	body := string(r[1 : len(r)-1])
	v, err := strconv.ParseUint(body, 2, PayloadBits)
	if err != nil {
		return 0, &FormatError{Body: body, Err: err}
	}
	return uint32(v), nil
}

// Encode builds the frame for c.
func Encode(c Code) (Frame, error) {
	v, err := c.Payload()
	if err != nil {
		return nil, err
	}
	f := make(Frame, FrameLen)
	copy(f, Header[:])
	binary.LittleEndian.PutUint32(f[2:], v)
	return f, nil
}

// MustEncode is like Encode but panics if c is malformed. It is meant for
// the constants above.
func MustEncode(c Code) Frame {
	f, err := Encode(c)
	if err != nil {
		panic(err)
	}
	return f
}

// FromPayload formats v as a Code.
func FromPayload(v uint32) (Code, error) {
	if v > MaxPayload {
		return "", &RangeError{Value: v}
	}
	return Code(fmt.Sprintf("B%0*bE", PayloadBits, v)), nil
}
