package hwdiv

import (
	"reflect"
	"testing"
)

func runUnits(width int, dividend, divisor int64) (r remainderUnit, q quotientUnit, oks []bool) {
	x := newXWord(uint(width) + 1)
	r = remainderUnit{x: x}
	q = quotientUnit{x: x, steps: width + 1}
	r.load(dividend, divisor)
	q.load(r.subtract())
	for i := 0; i <= width; i++ {
		ok := r.step()
		q.step(ok)
		oks = append(oks, ok)
	}
	return r, q, oks
}

func Test_remainderUnit_steps(t *testing.T) {
	// 22 / 7 with 8 bits: 7*2 and 7*1 are committed, giving q = 3, r = 1.
	r, q, oks := runUnits(8, 22, 7)
	exp := []bool{false, false, false, false, false, false, false, true, true}
	if !reflect.DeepEqual(oks, exp) {
		t.Errorf("steps = %v, expected %v", oks, exp)
	}
	if got := r.x.int64(r.remainder); got != 1 {
		t.Errorf("remainder = %d", got)
	}
	if got := q.x.int64(q.quotient); got != 3 {
		t.Errorf("quotient = %d", got)
	}
	if r.divByZero {
		t.Error("divByZero set")
	}
}

func Test_remainderUnit_zero_divisor(t *testing.T) {
	for _, dvd := range []int64{0, 22, -22, 127, -128} {
		r, q, oks := runUnits(8, dvd, 0)
		if !r.divByZero {
			t.Errorf("%d/0: divByZero not set", dvd)
		}
		for i, ok := range oks {
			if !ok {
				t.Errorf("%d/0: step %d not committed", dvd, i)
			}
		}
		if got := r.x.int64(r.remainder); got != dvd {
			t.Errorf("%d/0: remainder = %d", dvd, got)
		}
		exp := int64(-1)
		if dvd < 0 {
			exp = 1
		}
		if got := truncate(q.quotient, 8); got != exp {
			t.Errorf("%d/0: quotient = %d, expected %d", dvd, got, exp)
		}
	}
}

func Test_remainderUnit_min_over_minus_one(t *testing.T) {
	r, q, _ := runUnits(8, -128, -1)
	if got := r.x.int64(r.remainder); got != 0 {
		t.Errorf("remainder = %d", got)
	}
	// +128 fits the 9 bit register.
	if got := q.x.int64(q.quotient); got != 128 {
		t.Errorf("quotient = %d", got)
	}
}

func Test_quotientUnit_overrun(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	q := quotientUnit{x: newXWord(3), steps: 3}
	q.load(true)
	for i := 0; i < 4; i++ {
		q.step(true)
	}
}

func Test_stepSync(t *testing.T) {
	td := []struct {
		name  string
		depth int
	}{
		{"wire", 0},
		{"one", 1},
		{"three", 3},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			s := newStepSync(d.depth, 2)
			var in, out []bool
			// 5 ticks of 2 results, then flush.
			for i := 0; i < 5+d.depth; i++ {
				var batch []bool
				if i < 5 {
					batch = []bool{i%2 == 0, i%3 == 0}
					in = append(in, batch...)
				}
				got := s.relay(batch)
				if i < d.depth && len(got) != 0 {
					t.Fatalf("tick %d: got %v before pipeline filled", i, got)
				}
				out = append(out, got...)
			}
			if !reflect.DeepEqual(in, out) {
				t.Errorf("relayed %v, expected %v", out, in)
			}
			if s.pending() != 0 {
				t.Errorf("%d results still pending", s.pending())
			}
		})
	}
}

func Test_stepSync_reset(t *testing.T) {
	s := newStepSync(2, 1)
	s.relay([]bool{true})
	s.relay([]bool{true})
	s.reset()
	if s.pending() != 0 {
		t.Fatal("pending after reset")
	}
	if got := s.relay([]bool{false}); len(got) != 0 {
		t.Errorf("got %v after reset", got)
	}
}
