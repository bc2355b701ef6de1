// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// A Connection connects a part's pin to a wire in the circuit.
//
type Connection struct {
	Pin  string
	Wire string
}

// ParseConnections parses a connection configuration like
// "partPin1=wire1, partPin2=wire2" into a []Connection.
//
// Bus ranges are expanded on both sides, so "out[0..1]=q[2..3]" is the same
// as "out[0]=q[2], out[1]=q[3]". A single wire may be connected to a whole
// bus: "in[0..7]=false".
//
func ParseConnections(c string) ([]Connection, error) {
	var conns []Connection
	c = strings.TrimSpace(c)
	if c == "" {
		return nil, nil
	}
	for _, item := range strings.Split(c, ",") {
		kv := strings.Split(item, "=")
		if len(kv) != 2 {
			return nil, errors.Errorf("invalid connection %q", strings.TrimSpace(item))
		}
		k, v := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		ks, err := expandRange(k)
		if err != nil {
			return nil, errors.Wrap(err, "expand pin "+k)
		}
		vs, err := expandRange(v)
		if err != nil {
			return nil, errors.Wrap(err, "expand wire "+v)
		}
		switch {
		case len(ks) == len(vs):
			for i := range ks {
				conns = append(conns, Connection{ks[i], vs[i]})
			}
		case len(vs) == 1:
			for _, k := range ks {
				conns = append(conns, Connection{k, vs[0]})
			}
		default:
			return nil, errors.New("pin count mismatch in connection " + k + "=" + v)
		}
	}
	return conns, nil
}

func checkIdent(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || i > 0 && unicode.IsDigit(r) {
			continue
		}
		return errors.Errorf("invalid character %q in %q", r, name)
	}
	return nil
}

func expandRange(name string) ([]string, error) {
	i := strings.IndexRune(name, '[')
	if i < 0 {
		return []string{name}, checkIdent(name)
	}
	bus := name[:i]
	if err := checkIdent(bus); err != nil {
		return nil, err
	}
	n := name[i+1:]
	end := strings.IndexRune(n, ']')
	if end != len(n)-1 {
		return nil, errors.New("no terminating ] in bus index")
	}
	n = n[:end]
	i = strings.Index(n, "..")
	if i < 0 {
		idx, err := strconv.Atoi(n)
		if err != nil || idx < 0 {
			return nil, errors.Errorf("invalid bus index %q", n)
		}
		return []string{BusPinName(bus, idx)}, nil
	}
	start, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	stop, err := strconv.Atoi(n[i+2:])
	if err != nil {
		return nil, err
	}
	if start < 0 || stop < start {
		return nil, errors.Errorf("invalid bus range %q", n)
	}
	r := make([]string, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}

// BusPinName returns the pin name for the n-th bit (or lane) of the given bus.
//
func BusPinName(bus string, n int) string {
	return bus + "[" + strconv.Itoa(n) + "]"
}

// Bus returns the pin names of a bus of the given size.
//
//	Bus("in", 2) // returns []string{"in[0]", "in[1]"}
//
func Bus(name string, size int) []string {
	b := make([]string, size)
	for i := range b {
		b[i] = BusPinName(name, i)
	}
	return b
}
