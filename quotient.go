// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdiv

// quotientUnit accumulates the quotient from the step results of a
// remainderUnit. It only needs the operand signs: every committed remainder
// step of weight 2^k adds (or subtracts) 2^k to the quotient.
//
type quotientUnit struct {
	x     xword
	steps int // number of steps in a full division

	add       bool
	quotient  uint64
	increment uint64
	done      int
}

func (q *quotientUnit) load(sameSign bool) {
	q.add = sameSign
	q.quotient = 0
	q.increment = 1 << (q.x.bits - 1)
	q.done = 0
}

func (q *quotientUnit) step(ok bool) {
	if q.done == q.steps {
		panic("quotient unit stepped past the last step")
	}
	if ok {
		if q.add {
			q.quotient = q.x.add(q.quotient, q.increment)
		} else {
			q.quotient = q.x.sub(q.quotient, q.increment)
		}
	}
	q.increment >>= 1
	q.done++
}

func (q *quotientUnit) finished() bool {
	return q.done == q.steps
}
