// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/db47h/hwdiv"
	"github.com/db47h/hwdiv/hwlib"
	"github.com/db47h/hwdiv/hwtest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// exhaustiveWidth is the widest divider checked against every operand pair.
const exhaustiveWidth = 10

const maxReported = 10

type mismatch struct {
	Dividend int64        `json:"dividend"`
	Divisor  int64        `json:"divisor"`
	Got      hwdiv.Result `json:"got"`
	Expected hwdiv.Result `json:"expected"`
}

type verifyOutput struct {
	Width      int        `json:"width"`
	Exhaustive bool       `json:"exhaustive"`
	Circuit    bool       `json:"circuit"`
	Divisions  int        `json:"divisions"`
	Latency    int        `json:"latency"`
	Errors     int        `json:"errors"`
	Mismatches []mismatch `json:"mismatches,omitempty"`
}

// a divideFn runs one division and returns its result and latency.
type divideFn func(a, b int64) (hwdiv.Result, int, error)

func newVerifyCmd(o *options) *cobra.Command {
	var (
		samples int
		seed    int64
		circuit circuitFlags
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check divider results against native division",
		Long: fmt.Sprintf(`Check divider results and latency against native division.

Dividers up to %d bits wide are checked against every operand pair, wider ones
against random samples that always include the edge cases.`, exhaustiveWidth),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.divider()
			var div divideFn
			if circuit.enabled {
				b, err := hwlib.NewBench(cfg, o.cfg.Circuit.Workers, circuit.spc(o, cmd.Flags()))
				if err != nil {
					return err
				}
				defer b.Dispose()
				div = b.Divide
			} else {
				d, err := hwdiv.New(cfg)
				if err != nil {
					return err
				}
				div = func(a, b int64) (hwdiv.Result, int, error) {
					d.Load(a, b)
					n := d.Run()
					return d.Read(), n, nil
				}
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			out, err := verify(o.log, cfg, div, samples, seed)
			if err != nil {
				return err
			}
			out.Circuit = circuit.enabled
			if err := render(cmd.OutOrStdout(), o.format, out, out.text); err != nil {
				return err
			}
			if out.Errors > 0 {
				return errors.Errorf("%d of %d divisions failed", out.Errors, out.Divisions)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&samples, "samples", "n", 100000, "number of random divisions for wide dividers")
	f.Int64Var(&seed, "seed", 0, "random seed (default time based)")
	circuit.register(f)
	return cmd
}

func verify(log logrus.FieldLogger, cfg hwdiv.Config, div divideFn, samples int, seed int64) (*verifyOutput, error) {
	out := &verifyOutput{Width: cfg.Width, Latency: -1}
	var ops [][2]int64
	if cfg.Width <= exhaustiveWidth {
		out.Exhaustive = true
		min := -(int64(1) << uint(cfg.Width-1))
		max := int64(1)<<uint(cfg.Width-1) - 1
		for a := min; a <= max; a++ {
			for b := min; b <= max; b++ {
				ops = append(ops, [2]int64{a, b})
			}
		}
	} else {
		log.WithField("seed", seed).Info("random operands")
		ops = hwtest.Operands(rand.New(rand.NewSource(seed)), cfg.Width, samples)
	}

	start := time.Now()
	for _, op := range ops {
		got, n, err := div(op[0], op[1])
		if err != nil {
			return nil, errors.Wrapf(err, "%d / %d", op[0], op[1])
		}
		out.Divisions++
		if out.Latency < 0 {
			out.Latency = n
		} else if n != out.Latency {
			return nil, errors.Errorf("%d / %d took %d ticks, previous divisions took %d", op[0], op[1], n, out.Latency)
		}
		if exp := hwdiv.Reference(cfg.Width, op[0], op[1]); got != exp {
			out.Errors++
			if len(out.Mismatches) < maxReported {
				out.Mismatches = append(out.Mismatches, mismatch{op[0], op[1], got, exp})
			}
		}
	}
	log.WithFields(logrus.Fields{
		"divisions": out.Divisions,
		"elapsed":   time.Since(start),
	}).Info("verify done")
	return out, nil
}

func (out *verifyOutput) text(w io.Writer) error {
	mode := "random"
	if out.Exhaustive {
		mode = "exhaustive"
	}
	unit := "ticks"
	if out.Circuit {
		unit = "cycles"
	}
	for _, m := range out.Mismatches {
		if _, err := fmt.Fprintf(w, "FAIL %d / %d = %+v, expected %+v\n", m.Dividend, m.Divisor, m.Got, m.Expected); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "width %d, %s: %d divisions, %d errors, latency %d %s\n",
		out.Width, mode, out.Divisions, out.Errors, out.Latency, unit)
	return err
}
