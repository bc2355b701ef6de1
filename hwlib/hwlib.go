// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for hwsim: function
// backed inputs and outputs, ready/valid pipeline stages and a divider.
//
package hwlib

// common pin names
const (
	pIn       = "in"
	pOut      = "out"
	pInValid  = "in_valid"
	pInReady  = "in_ready"
	pOutValid = "out_valid"
	pOutReady = "out_ready"
)

// mask returns the low bits of v.
func mask(v int64, bits int) uint64 {
	return uint64(v) & (^uint64(0) >> uint(64-bits))
}

// signExtend interprets the low bits of v as a signed value.
func signExtend(v uint64, bits int) int64 {
	s := uint(64 - bits)
	return int64(v<<s) >> s
}
