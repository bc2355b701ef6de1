// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing dividers mounted in
// circuits.
//
package hwtest

import (
	"math/rand"
	"testing"
	"time"

	"github.com/db47h/hwdiv"
	"github.com/db47h/hwdiv/hwlib"
)

// Operands returns n random operand pairs that fit in width bits. The edge
// cases 0, -1, 1, the minimum and maximum values are always included first.
//
func Operands(rnd *rand.Rand, width, n int) [][2]int64 {
	min := -(int64(1) << uint(width-1))
	max := int64(1)<<uint(width-1) - 1
	edges := []int64{0, -1, 1, min, max}
	var ops [][2]int64
	for _, a := range edges {
		for _, b := range edges {
			if hwdiv.Fits(a, width) && hwdiv.Fits(b, width) {
				ops = append(ops, [2]int64{a, b})
			}
		}
	}
	span := uint64(max-min) + 1
	for len(ops) < n {
		a := min + int64(uint64(rnd.Int63())%span)
		b := min + int64(uint64(rnd.Int63())%span)
		// favor small divisors
		if rnd.Intn(2) == 0 {
			b >>= uint(rnd.Intn(width))
		}
		ops = append(ops, [2]int64{a, b})
	}
	return ops
}

// CompareDivider runs n random divisions through a circuit mounted divider and
// compares results with hwdiv.Reference. It also checks that every division
// takes the same number of cycles.
//
func CompareDivider(t *testing.T, cfg hwdiv.Config, n int) {
	t.Helper()

	b, err := hwlib.NewBench(cfg, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now()
	want := -1
	for _, op := range Operands(rnd, cfg.Width, n) {
		got, cycles, err := b.Divide(op[0], op[1])
		if err != nil {
			t.Fatalf("%d / %d: %v", op[0], op[1], err)
		}
		if exp := hwdiv.Reference(cfg.Width, op[0], op[1]); got != exp {
			t.Fatalf("%+v: %d / %d = %+v, expected %+v", cfg, op[0], op[1], got, exp)
		}
		if want < 0 {
			want = cycles
		} else if cycles != want {
			t.Fatalf("%d / %d took %d cycles, expected %d", op[0], op[1], cycles, want)
		}
	}

	c := b.Circuit()
	elapsed := time.Since(start)
	ticks := c.Steps() / c.SPC()
	t.Logf("%d components. %d steps in %v. %d clock ticks => %.2f Hz", c.Size(), c.Steps(), elapsed, ticks, float64(ticks)/(float64(elapsed)/float64(time.Second)))
}
