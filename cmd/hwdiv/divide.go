// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/db47h/hwdiv"
	"github.com/db47h/hwdiv/hwlib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type traceLine struct {
	Tick      uint64 `json:"tick"`
	State     string `json:"state"`
	Next      string `json:"next"`
	Steps     []bool `json:"steps,omitempty"`
	Remainder int64  `json:"remainder"`
	Quotient  int64  `json:"quotient"`
}

type divideOutput struct {
	Dividend int64 `json:"dividend"`
	Divisor  int64 `json:"divisor"`
	hwdiv.Result
	Ticks  int         `json:"ticks,omitempty"`
	Cycles int         `json:"cycles,omitempty"`
	Trace  []traceLine `json:"trace,omitempty"`
}

func newDivideCmd(o *options) *cobra.Command {
	var (
		trace   bool
		circuit circuitFlags
	)
	cmd := &cobra.Command{
		Use:   "divide DIVIDEND DIVISOR",
		Short: "Run a single division",
		Example: `  hwdiv divide 22 7
  hwdiv divide --trace -22 7
  hwdiv divide --circuit -w 16 -32768 -1`,
		// flags are parsed in PersistentPreRunE so that negative operands
		// are not taken for shorthand flags.
		DisableFlagParsing: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.DisableFlagParsing = false
			if err := cmd.ParseFlags(operandsLast(cmd, args)); err != nil {
				return cmd.FlagErrorFunc()(cmd, err)
			}
			if help, _ := cmd.Flags().GetBool("help"); help {
				return nil
			}
			return o.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if help, _ := cmd.Flags().GetBool("help"); help {
				return cmd.Help()
			}
			args := cmd.Flags().Args()
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return err
			}
			a, b, err := parseOperands(args)
			if err != nil {
				return err
			}
			out := divideOutput{Dividend: a, Divisor: b}
			if circuit.enabled {
				if trace {
					return errors.New("--trace is not supported with --circuit")
				}
				err = o.divideCircuit(&out, circuit.spc(o, cmd.Flags()))
			} else {
				err = o.divide(&out, trace)
			}
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o.format, out, out.text)
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&trace, "trace", "t", false, "print the divider state after every tick")
	circuit.register(f)
	return cmd
}

// operandsLast moves positional arguments after a "--" argument, keeping flags
// and their values in front. Arguments that parse as integers are always
// positional.
func operandsLast(cmd *cobra.Command, args []string) []string {
	var flags, ops []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			ops = append(ops, args[i+1:]...)
			i = len(args)
		case isInt(a) || a == "-" || !strings.HasPrefix(a, "-"):
			ops = append(ops, a)
		default:
			flags = append(flags, a)
			if takesValue(cmd, a) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		}
	}
	return append(append(flags, "--"), ops...)
}

// takesValue returns true if flag argument a expects its value in the next
// argument.
func takesValue(cmd *cobra.Command, a string) bool {
	if strings.Contains(a, "=") {
		return false
	}
	if strings.HasPrefix(a, "--") {
		f := lookupFlag(cmd, a[2:], "")
		return f != nil && f.NoOptDefVal == ""
	}
	// shorthand group like -tw: only the last one may take the next
	// argument.
	for i, c := range a[1:] {
		if c > 127 {
			return false
		}
		f := lookupFlag(cmd, "", string(c))
		if f == nil {
			return false
		}
		if f.NoOptDefVal == "" {
			return i == len(a)-2
		}
	}
	return false
}

func lookupFlag(cmd *cobra.Command, name, shorthand string) *pflag.Flag {
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
		var f *pflag.Flag
		if name != "" {
			f = fs.Lookup(name)
		} else {
			f = fs.ShorthandLookup(shorthand)
		}
		if f != nil {
			return f
		}
	}
	return nil
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 0, 64)
	return err == nil
}

func parseOperands(args []string) (a, b int64, err error) {
	if a, err = strconv.ParseInt(args[0], 0, 64); err != nil {
		return 0, 0, errors.Wrap(err, "invalid dividend")
	}
	if b, err = strconv.ParseInt(args[1], 0, 64); err != nil {
		return 0, 0, errors.Wrap(err, "invalid divisor")
	}
	return a, b, nil
}

func (o *options) divide(out *divideOutput, trace bool) error {
	opts := []hwdiv.Option{}
	tracers := []hwdiv.Tracer{hwdiv.LogTracer(o.log)}
	if trace {
		tracers = append(tracers, hwdiv.TracerFunc(func(e hwdiv.Event) {
			out.Trace = append(out.Trace, traceLine{
				Tick:      e.Tick,
				State:     e.State.String(),
				Next:      e.Next.String(),
				Steps:     e.Steps,
				Remainder: e.Remainder,
				Quotient:  e.Quotient,
			})
		}))
	}
	opts = append(opts, hwdiv.WithTracer(hwdiv.TracerFunc(func(e hwdiv.Event) {
		for _, t := range tracers {
			t.Trace(e)
		}
	})))
	d, err := hwdiv.New(o.divider(), opts...)
	if err != nil {
		return err
	}
	if !hwdiv.Fits(out.Dividend, o.cfg.Divider.Width) || !hwdiv.Fits(out.Divisor, o.cfg.Divider.Width) {
		return errors.Errorf("operands %d, %d do not fit in %d bits", out.Dividend, out.Divisor, o.cfg.Divider.Width)
	}
	d.Load(out.Dividend, out.Divisor)
	out.Ticks = d.Run()
	out.Result = d.Read()
	return nil
}

func (o *options) divideCircuit(out *divideOutput, spc uint) error {
	b, err := hwlib.NewBench(o.divider(), o.cfg.Circuit.Workers, spc)
	if err != nil {
		return err
	}
	defer b.Dispose()
	out.Result, out.Cycles, err = b.Divide(out.Dividend, out.Divisor)
	o.log.WithField("components", b.Circuit().Size()).Debug("circuit division")
	return err
}

func (out *divideOutput) text(w io.Writer) error {
	for _, l := range out.Trace {
		if _, err := fmt.Fprintf(w, "tick %3d %s -> %s steps %v remainder %d quotient %d\n",
			l.Tick, l.State, l.Next, l.Steps, l.Remainder, l.Quotient); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d / %d = %d remainder %d%s", out.Dividend, out.Divisor, out.Quotient, out.Remainder, flags(out.Result))
	if err != nil {
		return err
	}
	switch {
	case out.Cycles > 0:
		_, err = fmt.Fprintf(w, " (%d cycles)\n", out.Cycles)
	case out.Ticks > 0:
		_, err = fmt.Fprintf(w, " (%d ticks)\n", out.Ticks)
	default:
		_, err = fmt.Fprintln(w)
	}
	return err
}

func flags(r hwdiv.Result) string {
	s := ""
	if r.DivideByZero {
		s += " [divide by zero]"
	}
	if r.Overflow {
		s += " [overflow]"
	}
	return s
}
