// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/hwdiv/hwsim"
)

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() uint64) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: []string{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pin := s.Pin(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					c.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// InputBool creates a function based 1 bit input.
//
//	Outputs: out
//	Function: out = f() ? 1 : 0
//
func InputBool(f func() bool) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "InputBool",
		Inputs:  nil,
		Outputs: []string{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pin := s.Pin(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					c.SetBool(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named wire value on every circuit update.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(uint64)) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "Output",
		Inputs:  []string{pIn},
		Outputs: nil,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Pin(pIn)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// OutputBool is like Output for 1 bit wires.
//
func OutputBool(f func(bool)) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "OutputBool",
		Inputs:  []string{pIn},
		Outputs: nil,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Pin(pIn)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { f(c.GetBool(in)) },
			}
		},
	}
	return p.NewPart
}
