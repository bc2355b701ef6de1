// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdiv

import (
	"github.com/sirupsen/logrus"
)

// Event describes one divider tick.
//
// Remainder and Quotient are the raw width+1 bit registers after the tick,
// sign-extended to 64 bits.
//
type Event struct {
	Tick      uint64 `json:"tick"`
	State     State  `json:"-"`
	Next      State  `json:"-"`
	Steps     []bool `json:"steps,omitempty"` // committed flag for each remainder step run
	Remainder int64  `json:"remainder"`
	Quotient  int64  `json:"quotient"`
}

// A Tracer receives an Event after every divider tick.
//
type Tracer interface {
	Trace(e Event)
}

// TracerFunc adapts a function to the Tracer interface.
//
type TracerFunc func(e Event)

// Trace calls f(e).
//
func (f TracerFunc) Trace(e Event) { f(e) }

type logTracer struct {
	l logrus.FieldLogger
}

// LogTracer returns a Tracer that logs events at debug level.
//
func LogTracer(l logrus.FieldLogger) Tracer {
	return logTracer{l}
}

func (t logTracer) Trace(e Event) {
	t.l.WithFields(logrus.Fields{
		"tick":      e.Tick,
		"state":     e.State.String(),
		"next":      e.Next.String(),
		"steps":     len(e.Steps),
		"remainder": e.Remainder,
		"quotient":  e.Quotient,
	}).Debug("divider tick")
}
