// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdiv

import (
	"github.com/pkg/errors"
)

// Divide runs a single division on a new Divider.
//
func Divide(cfg Config, dividend, divisor int64, opts ...Option) (Result, error) {
	d, err := New(cfg, opts...)
	if err != nil {
		return Result{}, err
	}
	w := uint(d.cfg.Width)
	if !fits(dividend, w) || !fits(divisor, w) {
		return Result{}, errors.Errorf("operands %d, %d do not fit in %d bits", dividend, divisor, w)
	}
	d.Load(dividend, divisor)
	d.Run()
	return d.Read(), nil
}

// Reference returns the result a divider of the given width is expected to
// produce, computed with native arithmetic.
//
// Division by zero yields a quotient of -1 for non-negative dividends and 1
// for negative ones, and leaves the dividend as remainder.
//
func Reference(width int, dividend, divisor int64) Result {
	w := uint(width)
	if divisor == 0 {
		q := int64(-1)
		if dividend < 0 {
			q = 1
		}
		return Result{
			Quotient:     truncate(uint64(q), w),
			Remainder:    dividend,
			DivideByZero: true,
			Overflow:     !fits(q, w),
		}
	}
	q, r := dividend/divisor, dividend%divisor
	return Result{
		Quotient:  truncate(uint64(q), w),
		Remainder: r,
		Overflow:  !fits(q, w),
	}
}

// Fits returns true if v is a valid operand for a divider of the given width.
//
func Fits(v int64, width int) bool {
	return width >= 1 && width <= MaxWidth && fits(v, uint(width))
}
