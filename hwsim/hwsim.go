// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// A Component is a function that updates the outputs of a part, given the
// state of its inputs. Components must Set all their output wires on every
// call.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned wire numbers and return closures around
// these wire numbers.
//
// For example, a register that loads its input on every clock cycle can be
// defined like this:
//
//	reg := &PartSpec{
//		Name:    "Reg",
//		Inputs:  []string{"in"},
//		Outputs: []string{"out"},
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			var v uint64
//			return []Component{
//				func(c *Circuit) {
//					if c.AtTick() {
//						v = c.Get(in)
//					}
//					c.Set(out, v)
//				}}
//		}}
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use Bus() to expand bus names like "in[2]" to "in[0]", "in[1]".
	Inputs []string
	// Output pin names. Must be distinct pin names.
	Outputs []string

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed.
//
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := ParseConnections(connections)
	if err != nil {
		panic(errors.Wrap(err, p.Name))
	}
	return Part{p, conns}
}

func (p *PartSpec) isInput(name string) bool {
	for _, n := range p.Inputs {
		if n == name {
			return true
		}
	}
	return false
}

func (p *PartSpec) isOutput(name string) bool {
	for _, n := range p.Outputs {
		if n == name {
			return true
		}
	}
	return false
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a
// circuit.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part

// Circuit is a runnable circuit simulation.
//
type Circuit struct {
	s0    []uint64 // wire states frame #0
	s1    []uint64 // wire states frame #1
	cs    []Component
	wires map[string]int
	tpc   uint // steps per clock cycle
	tick  uint

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// stepsPerCycle indicates how many simulation steps to run per clock cycle.
// It is rounded up to the next power of two, with a minimum of 2. Every
// component adds a one step delay, so stepsPerCycle must be larger than the
// longest chain of unclocked components.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, stepsPerCycle uint, parts Parts) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	if stepsPerCycle < 2 {
		stepsPerCycle = 2
	}
	stepsPerCycle--
	stepsPerCycle |= stepsPerCycle >> 1
	stepsPerCycle |= stepsPerCycle >> 2
	stepsPerCycle |= stepsPerCycle >> 4
	stepsPerCycle |= stepsPerCycle >> 8
	stepsPerCycle |= stepsPerCycle >> 16
	stepsPerCycle |= stepsPerCycle >> 32
	stepsPerCycle++

	wires, err := connect(parts)
	if err != nil {
		return nil, err
	}

	c := &Circuit{wires: wires, tpc: stepsPerCycle}
	count := len(wires)
	var ups []Component
	for i, p := range parts {
		s := newSocket(c)
		for _, n := range p.Inputs {
			s.m[n] = cstFalse
		}
		for _, n := range p.Outputs {
			// unconnected outputs get a private wire.
			s.m[n] = count
			count++
		}
		for _, cn := range p.Conns {
			w, ok := wires[cn.Wire]
			if !ok {
				return nil, errors.Errorf("part #%d %s: unknown wire %s", i, p.Name, cn.Wire)
			}
			s.m[cn.Pin] = w
		}
		ups = append(ups, p.Mount(s)...)
	}
	ups = append(ups, updClock)
	c.cs = ups
	c.s0 = make([]uint64, count)
	c.s1 = make([]uint64, count)
	// init constant wires
	c.s0[cstClk] = 1
	c.s0[cstTrue] = 1
	c.s1[cstTrue] = 1

	// workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers == 0 {
		workers = 1
	}
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		c.wc = append(c.wc, wc)
		go worker(c, ups[:size], wc)
		ups = ups[size:]
	}

	return c, nil
}

// connect checks part connections and numbers wires.
//
func connect(parts Parts) (map[string]int, error) {
	wires := map[string]int{False: cstFalse, True: cstTrue, Clk: cstClk}
	drivers := make(map[string]string)
	var inputs []string
	var readers []string

	for i, p := range parts {
		seen := make(map[string]bool, len(p.Conns))
		for _, cn := range p.Conns {
			if seen[cn.Pin] {
				return nil, errors.Errorf("part #%d %s: pin %s connected twice", i, p.Name, cn.Pin)
			}
			seen[cn.Pin] = true
			switch {
			case p.isInput(cn.Pin):
				inputs = append(inputs, cn.Wire)
				readers = append(readers, p.Name+"."+cn.Pin)
			case p.isOutput(cn.Pin):
				switch cn.Wire {
				case False, True:
					return nil, errors.Errorf("%s.%s: output pin connected to constant %s input", p.Name, cn.Pin, cn.Wire)
				case Clk:
					return nil, errors.Errorf("%s.%s: output pin connected to clock signal", p.Name, cn.Pin)
				}
				if d, ok := drivers[cn.Wire]; ok {
					return nil, errors.Errorf("%s.%s: wire %s already driven by %s", p.Name, cn.Pin, cn.Wire, d)
				}
				drivers[cn.Wire] = p.Name + "." + cn.Pin
				if _, ok := wires[cn.Wire]; !ok {
					wires[cn.Wire] = len(wires)
				}
			default:
				return nil, errors.Errorf("invalid pin name %s for part %s", cn.Pin, p.Name)
			}
		}
	}

	for i, w := range inputs {
		if _, ok := wires[w]; !ok {
			return nil, errors.Errorf("%s: wire %s not connected to any output", readers[i], w)
		}
	}
	return wires, nil
}

func updClock(c *Circuit) {
	if c.s0[cstFalse] != 0 || c.s0[cstTrue] != 1 {
		panic("true or false constants have been overwritten")
	}

	// update clock signal
	tick := c.tick + 1
	if tick&(c.tpc-1) == 0 {
		c.s1[cstClk] = 1
	} else if tick&(c.tpc/2-1) == 0 {
		c.s1[cstClk] = 0
	} else {
		c.s1[cstClk] = c.s0[cstClk]
	}
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.tick
}

// SPC returns the stepsPerCycle value.
//
func (c *Circuit) SPC() uint {
	return c.tpc
}

// AtTick returns true if the current step is at the beginning of a clock cycle
// (raising edge of Clk).
//
func (c *Circuit) AtTick() bool {
	return c.Steps()&(c.SPC()-1) == 0
}

// AtTock returns true if the current step is at the beginning of the second
// half of a clock cycle (falling edge of Clk).
//
func (c *Circuit) AtTock() bool {
	return (c.Steps()+c.SPC()/2)&(c.SPC()-1) == 0
}

// Get returns the value of wire n. The value of n should be obtained in a
// MountFn by a call to Socket.Pin.
//
func (c *Circuit) Get(n int) uint64 {
	return c.s0[n]
}

// Set sets the value of wire n.
//
func (c *Circuit) Set(n int, v uint64) {
	c.s1[n] = v
}

// GetBool returns true if wire n is not zero.
//
func (c *Circuit) GetBool(n int) bool {
	return c.s0[n] != 0
}

// SetBool sets wire n to 1 if b is true, 0 otherwise.
//
func (c *Circuit) SetBool(n int, b bool) {
	if b {
		c.s1[n] = 1
	} else {
		c.s1[n] = 0
	}
}

// Probe returns the current value of the named wire.
//
func (c *Circuit) Probe(wire string) (uint64, bool) {
	n, ok := c.wires[wire]
	if !ok {
		return 0, false
	}
	return c.s0[n], true
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.tick++
	c.s0, c.s1 = c.s1, c.s0
}

// Tick runs the simulation until the beginning of the next half clock cycle.
//
func (c *Circuit) Tick() {
	for c.GetBool(cstClk) {
		c.Step()
	}
}

// Tock runs the simulation until the beginning of the next clock cycle.
// Once Tock returns, the output of clocked components should have stabilized.
//
func (c *Circuit) Tock() {
	for !c.GetBool(cstClk) {
		c.Step()
	}
}

// TickTock runs the simulation for a whole clock cycle.
//
func (c *Circuit) TickTock() {
	c.Tick()
	c.Tock()
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
