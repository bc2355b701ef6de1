// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwdiv/hwsim"
)

// Stage returns a one entry ready/valid pipeline register carrying lanes
// words.
//
//	Inputs: in_valid, in[lanes], out_ready
//	Outputs: in_ready, out_valid, out[lanes]
//	Function: on the raising edge of Clk:
//	          if out_valid && out_ready { empty the stage }
//	          if in_valid && in_ready { out = in; fill the stage }
//	          in_ready = !full, out_valid = full
//
// A full stage cannot accept new data on the edge that empties it, so a
// stream through a Stage runs at one item every two cycles.
//
func Stage(lanes int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "Stage" + strconv.Itoa(lanes),
		Inputs:  append([]string{pInValid, pOutReady}, hwsim.Bus(pIn, lanes)...),
		Outputs: append([]string{pInReady, pOutValid}, hwsim.Bus(pOut, lanes)...),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			inValid, outReady := s.Pin(pInValid), s.Pin(pOutReady)
			inReady, outValid := s.Pin(pInReady), s.Pin(pOutValid)
			in, out := s.Bus(pIn, lanes), s.Bus(pOut, lanes)
			var full bool
			data := make([]uint64, lanes)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					// raising edge?
					if c.AtTick() {
						wasFull := full
						if full && c.GetBool(outReady) {
							full = false
						}
						if !wasFull && c.GetBool(inValid) {
							for i, p := range in {
								data[i] = c.Get(p)
							}
							full = true
						}
					}
					c.SetBool(inReady, !full)
					c.SetBool(outValid, full)
					for i, p := range out {
						c.Set(p, data[i])
					}
				}}
		}}).NewPart
}
