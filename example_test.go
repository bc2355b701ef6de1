package hwdiv_test

import (
	"fmt"

	hd "github.com/db47h/hwdiv"
)

func ExampleDivider() {
	d := hd.MustNew(hd.Config{Width: 8})

	for _, ops := range [][2]int64{{-22, 7}, {22, -7}, {-22, 0}} {
		d.Load(ops[0], ops[1])
		ticks := d.Run()
		r := d.Read()
		fmt.Printf("%d / %d = %d rem %d, div by zero: %v (%d ticks)\n",
			ops[0], ops[1], r.Quotient, r.Remainder, r.DivideByZero, ticks)
	}

	// Output:
	// -22 / 7 = -3 rem -1, div by zero: false (9 ticks)
	// 22 / -7 = -3 rem 1, div by zero: false (9 ticks)
	// -22 / 0 = 1 rem -22, div by zero: true (9 ticks)
}

func ExampleDivider_Tick() {
	d := hd.MustNew(hd.Config{Width: 4, StepWidth: 2})
	in := hd.Inputs{InputValid: true, Dividend: 7, Divisor: 2}
	for {
		o := d.Tick(in)
		if o.InputReady && in.InputValid {
			in.InputValid = false
			fmt.Println("loaded")
		}
		if o.OutputValid {
			fmt.Println("quotient:", o.Quotient, "remainder:", o.Remainder)
			break
		}
	}
	fmt.Println(d.Ticks(), "ticks")

	// Output:
	// loaded
	// quotient: 3 remainder: 1
	// 5 ticks
}
