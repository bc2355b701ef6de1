// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdiv

import (
	"strconv"

	"github.com/pkg/errors"
)

// MaxWidth is the largest supported operand width.
//
const MaxWidth = 63

// MaxSyncStages is the largest supported Config.SyncStages.
//
const MaxSyncStages = MaxWidth + 1

// State is the state of the divider sequencer.
//
type State int

// Sequencer states.
//
const (
	Load State = iota // waiting for operands
	Calc              // dividing
	Done              // result available
)

func (s State) String() string {
	switch s {
	case Load:
		return "LOAD"
	case Calc:
		return "CALC"
	case Done:
		return "DONE"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Config holds the construction time parameters of a Divider.
//
type Config struct {
	// Operand width in bits, between 1 and MaxWidth.
	Width int
	// Number of division steps run per clock tick. Zero means 1, values
	// above Width+1 mean Width+1.
	// This trades latency for hardware width and never changes results.
	StepWidth int
	// Pipeline depth between the remainder and quotient units, at most
	// MaxSyncStages.
	SyncStages int
}

func (c Config) check() (Config, error) {
	if c.Width < 1 || c.Width > MaxWidth {
		return c, errors.Errorf("invalid width %d: must be between 1 and %d", c.Width, MaxWidth)
	}
	if c.StepWidth == 0 {
		c.StepWidth = 1
	}
	if c.StepWidth < 0 {
		return c, errors.Errorf("invalid step width %d", c.StepWidth)
	}
	if c.StepWidth > c.Width+1 {
		c.StepWidth = c.Width + 1
	}
	if c.SyncStages < 0 || c.SyncStages > MaxSyncStages {
		return c, errors.Errorf("invalid sync stage count %d: must be between 0 and %d", c.SyncStages, MaxSyncStages)
	}
	return c, nil
}

// Latency returns the number of CALC ticks a division takes with this
// configuration.
//
func (c Config) Latency() int {
	c, err := c.check()
	if err != nil {
		panic(err)
	}
	return (c.Width+c.StepWidth)/c.StepWidth + c.SyncStages
}

// Inputs are the signals driven by the user of a Divider.
//
type Inputs struct {
	InputValid  bool
	Dividend    int64
	Divisor     int64
	OutputReady bool
}

// Outputs are the signals driven by a Divider.
//
// DivideByZero is valid from the first CALC tick onward. Quotient, Remainder
// and Overflow are only meaningful when OutputValid is set.
//
type Outputs struct {
	InputReady   bool
	OutputValid  bool
	Quotient     int64
	Remainder    int64
	DivideByZero bool
	Overflow     bool
}

// Result is the result of a division.
//
type Result struct {
	Quotient     int64 `json:"quotient"`
	Remainder    int64 `json:"remainder"`
	DivideByZero bool  `json:"divide_by_zero"`
	Overflow     bool  `json:"overflow"`
}

// A Divider is a cycle accurate model of an iterative signed integer divider
// with ready/valid handshakes on its input and output.
//
// A Divider is not safe for concurrent use.
//
type Divider struct {
	cfg Config
	x   xword

	state State
	ticks uint64
	steps int // remainder steps left in this division

	rem  remainderUnit
	quo  quotientUnit
	sync *stepSync
	oks  []bool

	tracer Tracer
}

// An Option configures optional Divider features.
//
type Option func(*Divider)

// WithTracer sets a tracer called after every tick.
//
func WithTracer(t Tracer) Option {
	return func(d *Divider) { d.tracer = t }
}

// New returns a new Divider in the Load state.
//
func New(cfg Config, opts ...Option) (*Divider, error) {
	cfg, err := cfg.check()
	if err != nil {
		return nil, err
	}
	x := newXWord(uint(cfg.Width) + 1)
	d := &Divider{
		cfg:  cfg,
		x:    x,
		rem:  remainderUnit{x: x},
		quo:  quotientUnit{x: x, steps: cfg.Width + 1},
		sync: newStepSync(cfg.SyncStages, cfg.StepWidth),
		oks:  make([]bool, 0, cfg.StepWidth),
	}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// MustNew is like New but panics on error.
//
func MustNew(cfg Config, opts ...Option) *Divider {
	d, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Config returns the divider configuration, with defaults applied.
//
func (d *Divider) Config() Config { return d.cfg }

// State returns the current sequencer state.
//
func (d *Divider) State() State { return d.state }

// Ticks returns the number of ticks run since the divider was created.
//
func (d *Divider) Ticks() uint64 { return d.ticks }

// Outputs returns the outputs for the current state.
//
func (d *Divider) Outputs() Outputs {
	o := Outputs{
		InputReady:   d.state == Load,
		OutputValid:  d.state == Done,
		DivideByZero: d.state != Load && d.rem.divByZero,
	}
	if d.state == Done {
		w := uint(d.cfg.Width)
		o.Quotient = truncate(d.quo.quotient, w)
		o.Remainder = truncate(d.rem.remainder, w)
		o.Overflow = !fits(d.x.int64(d.quo.quotient), w)
	}
	return o
}

// Tick runs one clock cycle. It returns the outputs as seen by the caller
// during that cycle, i.e. before the clock edge.
//
// Asserting InputValid in the Load state with operands that do not fit in
// the configured width is a contract violation and panics.
//
func (d *Divider) Tick(in Inputs) Outputs {
	out := d.Outputs()
	var ev Event
	if d.tracer != nil {
		ev = Event{Tick: d.ticks, State: d.state}
	}

	switch d.state {
	case Load:
		if in.InputValid {
			d.load(in.Dividend, in.Divisor)
		}
	case Calc:
		n := d.calc()
		if d.tracer != nil {
			ev.Steps = append([]bool(nil), d.oks[:n]...)
		}
	case Done:
		if in.OutputReady {
			d.state = Load
		}
	default:
		panic("invalid divider state " + d.state.String())
	}
	d.ticks++

	if d.tracer != nil {
		ev.Next = d.state
		ev.Remainder = d.x.int64(d.rem.remainder)
		ev.Quotient = d.x.int64(d.quo.quotient)
		d.tracer.Trace(ev)
	}
	return out
}

func (d *Divider) load(dividend, divisor int64) {
	w := uint(d.cfg.Width)
	if !fits(dividend, w) || !fits(divisor, w) {
		panic(errors.Errorf("operands %d, %d do not fit in %d bits", dividend, divisor, w))
	}
	d.rem.load(dividend, divisor)
	d.quo.load(d.rem.subtract())
	d.sync.reset()
	d.steps = d.cfg.Width + 1
	d.state = Calc
}

// calc runs up to StepWidth remainder steps, relays their results to the
// quotient unit and returns the number of remainder steps run.
//
func (d *Divider) calc() int {
	d.oks = d.oks[:0]
	for i := 0; i < d.cfg.StepWidth && d.steps > 0; i++ {
		d.oks = append(d.oks, d.rem.step())
		d.steps--
	}
	for _, ok := range d.sync.relay(d.oks) {
		d.quo.step(ok)
	}
	if d.quo.finished() {
		if d.steps != 0 || d.sync.pending() != 0 {
			panic("quotient unit finished ahead of the remainder unit")
		}
		d.state = Done
	}
	return len(d.oks)
}

// Load transfers a new pair of operands. It panics if the divider is not
// ready for input.
//
func (d *Divider) Load(dividend, divisor int64) {
	if d.state != Load {
		panic("divider not ready for input in state " + d.state.String())
	}
	d.Tick(Inputs{InputValid: true, Dividend: dividend, Divisor: divisor})
}

// Run ticks the divider until its output is valid and returns the number of
// ticks spent. It panics if no division is in progress.
//
func (d *Divider) Run() int {
	if d.state == Load {
		panic("no division in progress")
	}
	n := 0
	for d.state == Calc {
		d.Tick(Inputs{})
		n++
	}
	return n
}

// Read returns the division result and completes the output handshake. It
// panics if the output is not valid.
//
func (d *Divider) Read() Result {
	if d.state != Done {
		panic("divider output not valid in state " + d.state.String())
	}
	o := d.Tick(Inputs{OutputReady: true})
	return Result{
		Quotient:     o.Quotient,
		Remainder:    o.Remainder,
		DivideByZero: o.DivideByZero,
		Overflow:     o.Overflow,
	}
}
