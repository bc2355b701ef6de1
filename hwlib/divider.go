// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwdiv"
	"github.com/db47h/hwdiv/hwsim"
)

// Divider pin names.
//
const (
	PinDividend     = "dividend"
	PinDivisor      = "divisor"
	PinQuotient     = "quotient"
	PinRemainder    = "remainder"
	PinDivideByZero = "div_by_zero"
	PinOverflow     = "overflow"
)

// Divider returns a clocked signed divider part built around a hwdiv.Divider.
// Each mounted instance gets its own divider. Operands and results are
// cfg.Width bits wide, sign-extended on input and truncated on output.
//
//	Inputs: in_valid, dividend, divisor, out_ready
//	Outputs: in_ready, out_valid, quotient, remainder, div_by_zero, overflow
//	Function: one hwdiv.Divider tick per clock cycle.
//
func Divider(cfg hwdiv.Config, opts ...hwdiv.Option) (hwsim.NewPartFn, error) {
	// validate now rather than panic at mount time.
	if _, err := hwdiv.New(cfg); err != nil {
		return nil, err
	}
	w := cfg.Width
	return (&hwsim.PartSpec{
		Name:    "Divider" + strconv.Itoa(w),
		Inputs:  []string{pInValid, PinDividend, PinDivisor, pOutReady},
		Outputs: []string{pInReady, pOutValid, PinQuotient, PinRemainder, PinDivideByZero, PinOverflow},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			inValid, dividend, divisor, outReady := s.Pin(pInValid), s.Pin(PinDividend), s.Pin(PinDivisor), s.Pin(pOutReady)
			inReady, outValid := s.Pin(pInReady), s.Pin(pOutValid)
			quo, rem, dz, ovf := s.Pin(PinQuotient), s.Pin(PinRemainder), s.Pin(PinDivideByZero), s.Pin(PinOverflow)
			d := hwdiv.MustNew(cfg, opts...)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if c.AtTick() {
						d.Tick(hwdiv.Inputs{
							InputValid:  c.GetBool(inValid),
							Dividend:    signExtend(c.Get(dividend), w),
							Divisor:     signExtend(c.Get(divisor), w),
							OutputReady: c.GetBool(outReady),
						})
					}
					o := d.Outputs()
					c.SetBool(inReady, o.InputReady)
					c.SetBool(outValid, o.OutputValid)
					c.Set(quo, mask(o.Quotient, w))
					c.Set(rem, mask(o.Remainder, w))
					c.SetBool(dz, o.DivideByZero)
					c.SetBool(ovf, o.Overflow)
				}}
		}}).NewPart, nil
}
