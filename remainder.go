// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdiv

// remainderUnit computes a truncating signed remainder by adding or
// subtracting decreasing power of two multiples of the divisor to the dividend,
// walking the remainder towards zero without crossing it.
//
// All registers are width+1 bits wide so that the magnitude of the most
// negative width-bit value fits.
//
type remainderUnit struct {
	x xword

	dividendSign bool
	divisorSign  bool
	divByZero    bool

	remainder uint64
	// increment holds the divisor, shifted in one bit at a time from the
	// bottom of shadow. It starts as divisor * 2^width.
	increment uint64
	// shadow holds the not yet consumed high bits of the divisor.
	shadow uint64
}

func (r *remainderUnit) load(dividend, divisor int64) {
	dvd, dvs := r.x.extend(dividend), r.x.extend(divisor)
	r.dividendSign = r.x.sign(dvd)
	r.divisorSign = r.x.sign(dvs)
	r.divByZero = dvs == 0
	r.remainder = dvd
	r.shadow = r.x.asr(dvs)
	r.increment = r.x.shiftIn(0, dvs&1 != 0)
}

// subtract returns true if the increment must be subtracted from the
// remainder. Same signs move towards zero by subtraction.
//
func (r *remainderUnit) subtract() bool {
	return r.dividendSign == r.divisorSign
}

// step runs one restoring step and returns true if it was committed.
//
func (r *remainderUnit) step() bool {
	var candidate uint64
	if r.subtract() {
		candidate = r.x.sub(r.remainder, r.increment)
	} else {
		candidate = r.x.add(r.remainder, r.increment)
	}

	// the increment is only usable once the whole divisor has been shifted
	// into it and it has not been shifted past its own sign.
	incValid := r.x.allSign(r.shadow) && r.x.sign(r.increment) == r.divisorSign
	// landing on zero is fine, crossing it is not.
	candValid := r.x.sign(candidate) == r.dividendSign || candidate == 0

	ok := incValid && candValid
	if ok {
		r.remainder = candidate
	}

	r.increment = r.x.shiftIn(r.increment, r.shadow&1 != 0)
	r.shadow = r.x.asr(r.shadow)
	return ok
}
