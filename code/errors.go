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

import "fmt"

// PreconditionError reports a code that is not CodeLen characters long.
// Len is the character count.
type PreconditionError struct {
	Code string
	Len  int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("code %q has length %d, want %d", e.Code, e.Len, CodeLen)
}

// FormatError reports a payload that is not a base-2 number.
type FormatError struct {
	Body string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("code payload %q is not binary: %v", e.Body, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// RangeError reports a value that does not fit in PayloadBits.
type RangeError struct {
	Value uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value 0x%X exceeds %d bits", e.Value, PayloadBits)
}

// FrameError reports a byte sequence that is not a valid Frame.
type FrameError struct {
	Frame  []byte
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("invalid frame %X: %s", e.Frame, e.Reason)
}
