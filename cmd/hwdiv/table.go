// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/db47h/hwdiv"
	"github.com/spf13/cobra"
)

type tableRow struct {
	Dividend int64 `json:"dividend"`
	Divisor  int64 `json:"divisor"`
	hwdiv.Result
}

type tableOutput struct {
	Width int        `json:"width"`
	Rows  []tableRow `json:"rows"`
}

func newTableCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the divide by zero table and worked examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.divider()
			d, err := hwdiv.New(cfg, hwdiv.WithTracer(hwdiv.LogTracer(o.log)))
			if err != nil {
				return err
			}
			out := tableOutput{Width: cfg.Width}
			for _, op := range tableOperands(cfg.Width) {
				d.Load(op[0], op[1])
				d.Run()
				out.Rows = append(out.Rows, tableRow{Dividend: op[0], Divisor: op[1], Result: d.Read()})
			}
			return render(cmd.OutOrStdout(), o.format, out, out.text)
		},
	}
}

// tableOperands returns the operands of the table for the given width.
func tableOperands(width int) [][2]int64 {
	min := -(int64(1) << uint(width-1))
	max := int64(1)<<uint(width-1) - 1
	cands := [][2]int64{
		{0, 0}, {22, 0}, {-22, 0}, {max, 0}, {min, 0},
		{22, 7}, {-22, 7}, {22, -7}, {-22, -7}, {7, 22}, {-7, 22},
		{max, 1}, {min, 1}, {max, -1}, {min, -1},
	}
	var ops [][2]int64
	seen := make(map[[2]int64]bool)
	for _, op := range cands {
		if !hwdiv.Fits(op[0], width) || !hwdiv.Fits(op[1], width) || seen[op] {
			continue
		}
		seen[op] = true
		ops = append(ops, op)
	}
	return ops
}

func (out *tableOutput) text(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "dividend\tdivisor\tquotient\tremainder\t\n")
	for _, r := range out.Rows {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\n", r.Dividend, r.Divisor, r.Quotient, r.Remainder, flags(r.Result))
	}
	return tw.Flush()
}
