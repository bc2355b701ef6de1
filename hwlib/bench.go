// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/hwdiv"
	"github.com/db47h/hwdiv/hwsim"
	"github.com/pkg/errors"
)

// A Bench runs divisions on a Divider part mounted in a circuit between two
// pipeline stages:
//
//	Input -> Stage -> Divider -> Stage -> Output
//
// A Bench is not safe for concurrent use.
//
type Bench struct {
	cfg hwdiv.Config
	c   *hwsim.Circuit

	// driven by the bench
	srcValid           bool
	dividend, divisor  uint64
	dstReady           bool
	srcReady, dstValid bool
	result             [4]uint64
}

// NewBench builds the bench circuit. See hwsim.NewCircuit for the meaning of
// workers and stepsPerCycle. A stepsPerCycle of 0 selects a sensible default.
//
// Callers must call Dispose once done with the bench.
//
func NewBench(cfg hwdiv.Config, workers int, stepsPerCycle uint, opts ...hwdiv.Option) (*Bench, error) {
	div, err := Divider(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if stepsPerCycle == 0 {
		stepsPerCycle = 8
	}
	b := &Bench{cfg: cfg, dstReady: true}
	parts := hwsim.Parts{
		InputBool(func() bool { return b.srcValid })("out=src_valid"),
		Input(func() uint64 { return b.dividend })("out=src[0]"),
		Input(func() uint64 { return b.divisor })("out=src[1]"),
		Stage(2)("in_valid=src_valid, in[0..1]=src[0..1], in_ready=src_ready, " +
			"out_valid=a_valid, out[0..1]=a[0..1], out_ready=a_ready"),
		div("in_valid=a_valid, dividend=a[0], divisor=a[1], in_ready=a_ready, " +
			"out_valid=b_valid, quotient=b[0], remainder=b[1], div_by_zero=b[2], overflow=b[3], out_ready=b_ready"),
		Stage(4)("in_valid=b_valid, in[0..3]=b[0..3], in_ready=b_ready, " +
			"out_valid=dst_valid, out[0..3]=dst[0..3], out_ready=dst_ready"),
		InputBool(func() bool { return b.dstReady })("out=dst_ready"),
		OutputBool(func(v bool) { b.srcReady = v })("in=src_ready"),
		OutputBool(func(v bool) { b.dstValid = v })("in=dst_valid"),
	}
	for i := range b.result {
		r := &b.result[i]
		parts = append(parts, Output(func(v uint64) { *r = v })("in="+hwsim.BusPinName("dst", i)))
	}
	b.c, err = hwsim.NewCircuit(workers, stepsPerCycle, parts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bench circuit")
	}
	return b, nil
}

// Dispose releases the bench circuit.
//
func (b *Bench) Dispose() { b.c.Dispose() }

// Circuit returns the underlying circuit.
//
func (b *Bench) Circuit() *hwsim.Circuit { return b.c }

// Divide runs one division through the bench and returns the result together
// with the number of clock cycles from offering the operands to seeing the
// result.
//
func (b *Bench) Divide(dividend, divisor int64) (hwdiv.Result, int, error) {
	w := b.cfg.Width
	if !hwdiv.Fits(dividend, w) || !hwdiv.Fits(divisor, w) {
		return hwdiv.Result{}, 0, errors.Errorf("operands %d, %d do not fit in %d bits", dividend, divisor, w)
	}
	// two stages, one cycle each way for signals to reach the parts, and
	// some slack.
	limit := b.cfg.Latency() + 16
	cycles := 0

	b.dividend, b.divisor = mask(dividend, w), mask(divisor, w)
	b.srcValid = true
	for {
		b.c.TickTock()
		cycles++
		// the transfer happens on the next raising edge. Dropping valid now is
		// only seen by the stage one step after that edge.
		if b.srcReady {
			break
		}
		if cycles > limit {
			return hwdiv.Result{}, cycles, errors.New("bench input stage stuck")
		}
	}
	b.srcValid = false

	for {
		b.c.TickTock()
		cycles++
		if b.dstValid {
			break
		}
		if cycles > limit {
			return hwdiv.Result{}, cycles, errors.Errorf("no result after %d cycles", cycles)
		}
	}
	// dst_ready is always set, the result is consumed on the next edge.
	return hwdiv.Result{
		Quotient:     signExtend(b.result[0], w),
		Remainder:    signExtend(b.result[1], w),
		DivideByZero: b.result[2] != 0,
		Overflow:     b.result[3] != 0,
	}, cycles, nil
}
