// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdiv

// xword describes a register of bits (<= 64) bits wide. Register contents are
// kept in the low bits of a uint64, upper bits always zero.
//
type xword struct {
	bits uint
	mask uint64
}

func newXWord(bits uint) xword {
	if bits == 0 || bits > 64 {
		panic("invalid register width")
	}
	return xword{bits: bits, mask: ^uint64(0) >> (64 - bits)}
}

// extend sign-extends the w-bit signed value v to the full register width.
//
func (x xword) extend(v int64) uint64 {
	return uint64(v) & x.mask
}

// sign returns the most significant bit of v.
//
func (x xword) sign(v uint64) bool {
	return v>>(x.bits-1)&1 != 0
}

// asr shifts v right by one bit, replicating the sign bit.
// This is done by hand since Go's >> on uint64 is a logical shift and the
// register may be narrower than any native signed type.
//
func (x xword) asr(v uint64) uint64 {
	r := v >> 1
	if x.sign(v) {
		r |= 1 << (x.bits - 1)
	}
	return r
}

// shiftIn shifts v right by one bit and places b in the msb.
//
func (x xword) shiftIn(v uint64, b bool) uint64 {
	r := v >> 1
	if b {
		r |= 1 << (x.bits - 1)
	}
	return r
}

func (x xword) add(a, b uint64) uint64 { return (a + b) & x.mask }
func (x xword) sub(a, b uint64) uint64 { return (a - b) & x.mask }

// allSign returns true if every bit of v equals the sign bit. That is, v is
// either all zeros or all ones.
//
func (x xword) allSign(v uint64) bool {
	return v == 0 || v == x.mask
}

// int64 interprets v as a signed value of the register width.
//
func (x xword) int64(v uint64) int64 {
	if x.sign(v) {
		return int64(v | ^x.mask)
	}
	return int64(v)
}

// truncate returns the low w bits of v as a signed value.
//
func truncate(v uint64, w uint) int64 {
	return newXWord(w).int64(v & (^uint64(0) >> (64 - w)))
}

// fits returns true if the signed value v can be represented with w bits.
//
func fits(v int64, w uint) bool {
	min := -(int64(1) << (w - 1))
	max := int64(1)<<(w-1) - 1
	return v >= min && v <= max
}
