// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"encoding/json"
	"io"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// render writes v to w in the given format. text is used for the text format.
func render(w io.Writer, format string, v interface{}, text func(w io.Writer) error) error {
	switch format {
	case formatText:
		return text(w)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encode json")
	case formatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		_, err = w.Write(b)
		return err
	}
	return errors.Errorf("invalid output format %q", format)
}

// circuitFlags are the flags of commands that can run on a circuit mounted
// divider.
type circuitFlags struct {
	enabled       bool
	stepsPerCycle uint
}

func (c *circuitFlags) register(f *pflag.FlagSet) {
	f.BoolVar(&c.enabled, "circuit", false, "run on a divider mounted in a simulated circuit")
	f.UintVar(&c.stepsPerCycle, "steps-per-cycle", 0, "circuit simulation steps per clock cycle (default from config)")
}

func (c *circuitFlags) spc(o *options, f *pflag.FlagSet) uint {
	if f.Changed("steps-per-cycle") {
		return c.stepsPerCycle
	}
	return o.cfg.Circuit.StepsPerCycle
}
