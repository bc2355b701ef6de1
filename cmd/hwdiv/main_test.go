package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/hwdiv"
	"github.com/ghodss/yaml"
	. "github.com/onsi/gomega"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir, err := ioutil.TempDir("", "hwdiv-cmd")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	cfg := filepath.Join(dir, "hwdiv.yaml")
	if err := ioutil.WriteFile(cfg, []byte("log:\n  level: warn\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	// the sub-command comes first so that "--" stays last.
	cmd.SetArgs(append(args[:1:1], append([]string{"--config", cfg}, args[1:]...)...))
	err = cmd.Execute()
	return out.String(), err
}

func TestDivide(t *testing.T) {
	g := NewGomegaWithT(t)

	out, err := run(t, "divide", "22", "7")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(Equal("22 / 7 = 3 remainder 1 (33 ticks)\n"))

	out, err = run(t, "divide", "-w", "8", "--", "-128", "-1")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(Equal("-128 / -1 = -128 remainder 0 [overflow] (9 ticks)\n"))

	out, err = run(t, "divide", "-w", "8", "-o", "json", "--", "-22", "0")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(MatchJSON(`{
		"dividend": -22, "divisor": 0,
		"quotient": 1, "remainder": -22,
		"divide_by_zero": true, "overflow": false,
		"ticks": 9
	}`))
}

func TestDivide_negativeOperands(t *testing.T) {
	g := NewGomegaWithT(t)

	td := []struct {
		args []string
		out  string
	}{
		{[]string{"divide", "-w", "8", "-22", "7"}, "-22 / 7 = -3 remainder -1 (9 ticks)\n"},
		{[]string{"divide", "-22", "-w", "8", "-7"}, "-22 / -7 = 3 remainder -1 (9 ticks)\n"},
		{[]string{"divide", "-w=8", "22", "-7"}, "22 / -7 = -3 remainder 1 (9 ticks)\n"},
		{[]string{"divide", "-0x10", "--width", "8", "3"}, "-16 / 3 = -5 remainder -1 (9 ticks)\n"},
		{[]string{"divide", "--sync-stages", "1", "-w", "8", "-128", "-1"}, "-128 / -1 = -128 remainder 0 [overflow] (10 ticks)\n"},
		{[]string{"divide", "-w", "8", "--", "-22", "0"}, "-22 / 0 = 1 remainder -22 [divide by zero] (9 ticks)\n"},
	}
	for _, d := range td {
		out, err := run(t, d.args...)
		g.Expect(err).NotTo(HaveOccurred(), "%v", d.args)
		g.Expect(out).To(Equal(d.out), "%v", d.args)
	}

	out, err := run(t, "divide", "-t", "-w", "4", "-5", "2")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(HaveSuffix("-5 / 2 = -2 remainder -1 (5 ticks)\n"))

	_, err = run(t, "divide", "-x", "1", "2")
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("unknown shorthand flag"))
}

func TestDivide_trace(t *testing.T) {
	g := NewGomegaWithT(t)

	out, err := run(t, "divide", "--trace", "-w", "4", "-o", "yaml", "5", "2")
	g.Expect(err).NotTo(HaveOccurred())
	j, err := yaml.YAMLToJSON([]byte(out))
	g.Expect(err).NotTo(HaveOccurred())
	var res divideOutput
	g.Expect(json.Unmarshal(j, &res)).To(Succeed())

	g.Expect(res.Quotient).To(Equal(int64(2)))
	g.Expect(res.Remainder).To(Equal(int64(1)))
	g.Expect(res.Ticks).To(Equal(5))
	// load, five steps, read.
	g.Expect(res.Trace).To(HaveLen(7))
	g.Expect(res.Trace[0].State).To(Equal("LOAD"))
	g.Expect(res.Trace[0].Next).To(Equal("CALC"))
	g.Expect(res.Trace[5].Next).To(Equal("DONE"))
	g.Expect(res.Trace[6].Next).To(Equal("LOAD"))
	for _, l := range res.Trace[1:6] {
		g.Expect(l.Steps).To(HaveLen(1))
	}

	out, err = run(t, "divide", "--trace", "-w", "4", "5", "2")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(HavePrefix("tick   0 LOAD -> CALC"))
	g.Expect(out).To(HaveSuffix("5 / 2 = 2 remainder 1 (5 ticks)\n"))
}

func TestDivide_circuit(t *testing.T) {
	g := NewGomegaWithT(t)

	out, err := run(t, "divide", "--circuit", "-w", "8", "--", "-128", "-1")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(Equal("-128 / -1 = -128 remainder 0 [overflow] (13 cycles)\n"))

	out, err = run(t, "divide", "--circuit", "--step-width", "3", "--sync-stages", "1", "-w", "8", "100", "9")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(Equal("100 / 9 = 11 remainder 1 (8 cycles)\n"))
}

func TestDivide_errors(t *testing.T) {
	g := NewGomegaWithT(t)

	td := []struct {
		args []string
		msg  string
	}{
		{[]string{"divide", "-w", "64", "1", "1"}, "invalid width 64"},
		{[]string{"divide", "-o", "xml", "1", "1"}, `invalid output format "xml"`},
		{[]string{"divide", "-w", "8", "200", "1"}, "do not fit in 8 bits"},
		{[]string{"divide", "x", "1"}, "invalid dividend"},
		{[]string{"divide", "1", "0x"}, "invalid divisor"},
		{[]string{"divide", "1"}, "accepts 2 arg(s)"},
		{[]string{"divide", "--circuit", "--trace", "1", "1"}, "not supported"},
		{[]string{"table", "--log-level", "loud"}, "invalid log level"},
	}
	for _, d := range td {
		_, err := run(t, d.args...)
		g.Expect(err).To(HaveOccurred(), "%v", d.args)
		g.Expect(err.Error()).To(ContainSubstring(d.msg), "%v", d.args)
	}
}

func TestTable(t *testing.T) {
	g := NewGomegaWithT(t)

	out, err := run(t, "table", "-w", "8", "-o", "json")
	g.Expect(err).NotTo(HaveOccurred())
	var res tableOutput
	g.Expect(json.Unmarshal([]byte(out), &res)).To(Succeed())
	g.Expect(res.Width).To(Equal(8))
	g.Expect(res.Rows).To(HaveLen(15))
	for _, r := range res.Rows {
		g.Expect(r.Result).To(Equal(hwdiv.Reference(8, r.Dividend, r.Divisor)), "%d / %d", r.Dividend, r.Divisor)
	}

	// 22 and 7 do not fit in 4 bits.
	out, err = run(t, "table", "-w", "4")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("quotient"))
	g.Expect(tableOperands(4)).To(HaveLen(7))
}

func TestVerify(t *testing.T) {
	g := NewGomegaWithT(t)

	out, err := run(t, "verify", "-w", "4")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(Equal("width 4, exhaustive: 256 divisions, 0 errors, latency 5 ticks\n"))

	out, err = run(t, "verify", "-w", "3", "--circuit")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(Equal("width 3, exhaustive: 64 divisions, 0 errors, latency 8 cycles\n"))

	out, err = run(t, "verify", "-w", "40", "--step-width", "7", "-n", "500", "--seed", "1", "-o", "json")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(MatchJSON(`{
		"width": 40,
		"exhaustive": false,
		"circuit": false,
		"divisions": 500,
		"latency": 6,
		"errors": 0
	}`))
}
