/*
Package hwsim is a naive clocked circuit simulator where wires carry words of
up to 64 bits.

Parts are described by a PartSpec: a name, input and output pin names, and a
mount function that returns the part's components. Components are plain
closures called once per simulation step; they read wire values from the
previous step and set new values for their outputs. Clocked parts update their
internal state when AtTick() is true and keep driving their outputs in
between.

Parts are connected to named wires when building a circuit:

	c, err := hwsim.NewCircuit(0, 8, hwsim.Parts{
		hwlib.Input(func() uint64 { return a })("out=a"),
		reg("in=a, out=q"),
		hwlib.Output(func(v uint64) { q = v })("in=q"),
	})

The wires "false", "true" and "clk" are predefined.
*/
package hwsim
