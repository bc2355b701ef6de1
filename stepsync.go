// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdiv

// stepSync relays per-step results from the remainder unit to the quotient
// unit through depth pipeline stages. Each stage holds the batch of step
// results produced during one tick.
//
// With a depth of 0, relay is a plain wire.
//
type stepSync struct {
	stages [][]bool
	head   int
	out    []bool
}

func newStepSync(depth, batch int) *stepSync {
	s := &stepSync{
		stages: make([][]bool, depth),
		out:    make([]bool, 0, batch),
	}
	for i := range s.stages {
		s.stages[i] = make([]bool, 0, batch)
	}
	return s
}

func (s *stepSync) reset() {
	for i := range s.stages {
		s.stages[i] = s.stages[i][:0]
	}
	s.head = 0
}

// relay pushes this tick's step results and returns those pushed depth ticks
// ago, in order. The returned slice is only valid until the next call.
//
func (s *stepSync) relay(in []bool) []bool {
	if len(s.stages) == 0 {
		return in
	}
	oldest := s.stages[s.head]
	s.out = append(s.out[:0], oldest...)
	s.stages[s.head] = append(oldest[:0], in...)
	s.head++
	if s.head == len(s.stages) {
		s.head = 0
	}
	return s.out
}

// pending returns the number of step results held in the pipeline.
//
func (s *stepSync) pending() int {
	n := 0
	for _, st := range s.stages {
		n += len(st)
	}
	return n
}
