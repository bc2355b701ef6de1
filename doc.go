/*
Package hwdiv is a cycle accurate model of an iterative signed integer divider
as found in hardware designs.

The divider is made of a remainder unit, running a restoring division by
decreasing powers of two of the divisor, and a quotient unit which accumulates
the quotient from the committed remainder steps. Both units are stepped in
the same tick, optionally with a pipeline of SyncStages ticks between them.
A LOAD -> CALC -> DONE sequencer exposes ready/valid handshakes on the input
and output:

	d := hwdiv.MustNew(hwdiv.Config{Width: 8})
	d.Load(-22, 7)
	d.Run()             // Width+1 ticks
	r := d.Read()       // r.Quotient == -3, r.Remainder == -1

Division truncates towards zero. Division by zero is not an error: the
DivideByZero output is set, the remainder is the dividend and the quotient is
-1 for a non-negative dividend, 1 otherwise.

Results for any width and step width are identical; only latency changes.
*/
package hwdiv
