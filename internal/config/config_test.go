package config_test

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/db47h/hwdiv"
	"github.com/db47h/hwdiv/internal/config"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	Describe("Default", func() {
		It("describes a 32 bit single step divider", func() {
			c := config.Default()
			Expect(c.DividerConfig()).To(Equal(hwdiv.Config{Width: 32, StepWidth: 1}))
			Expect(c.Validate()).To(Succeed())
			Expect(c.Log.Level).To(Equal("info"))
			Expect(c.Server.Port).To(Equal(8080))
		})
	})

	Describe("Parse", func() {
		It("keeps defaults for empty input", func() {
			c, err := config.Parse(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(Equal(config.Default()))
		})

		It("overrides the given keys", func() {
			c, err := config.Parse([]byte(`
divider:
  width: 8
  step_width: 2
  sync_stages: 1
circuit:
  workers: 2
log:
  level: debug
  format: json
server:
  port: "9000"
`))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.DividerConfig()).To(Equal(hwdiv.Config{Width: 8, StepWidth: 2, SyncStages: 1}))
			Expect(c.Circuit.Workers).To(Equal(2))
			Expect(c.Circuit.StepsPerCycle).To(Equal(uint(8)))
			Expect(c.Log).To(Equal(config.Log{Level: "debug", Format: "json"}))
			Expect(c.Server).To(Equal(config.Server{Addr: "127.0.0.1", Port: 9000}))
		})

		It("clamps huge step widths", func() {
			c, err := config.Parse([]byte("divider: {width: 8, step_width: 9223372036854775807}"))
			Expect(err).NotTo(HaveOccurred())
			d, err := hwdiv.New(c.DividerConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Config().StepWidth).To(Equal(9))
			Expect(c.DividerConfig().Latency()).To(Equal(1))
		})

		It("rejects unknown keys", func() {
			_, err := config.Parse([]byte("divider:\n  witdh: 8\n"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("witdh"))
		})

		It("rejects invalid YAML", func() {
			_, err := config.Parse([]byte("divider: [\n"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("parse yaml"))
		})

		DescribeTable("rejects invalid values",
			func(doc, msg string) {
				_, err := config.Parse([]byte(doc))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(msg))
			},
			Entry("width", "divider: {width: 64}", "invalid width 64"),
			Entry("step width", "divider: {step_width: -1}", "invalid step width -1"),
			Entry("sync stages", "divider: {sync_stages: -1}", "invalid sync stage count -1"),
			Entry("deep sync stages", "divider: {sync_stages: 9223372036854775807}", "invalid sync stage count 9223372036854775807"),
			Entry("workers", "circuit: {workers: -1}", "invalid worker count -1"),
			Entry("port", "server: {port: 70000}", "invalid port 70000"),
		)
	})

	Describe("Load", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = ioutil.TempDir("", "hwdiv-config")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			os.RemoveAll(dir)
		})

		It("reads the given file", func() {
			path := filepath.Join(dir, "hwdiv.yaml")
			Expect(ioutil.WriteFile(path, []byte("divider:\n  width: 16\n"), 0644)).To(Succeed())
			c, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Divider.Width).To(Equal(16))
		})

		It("fails on a missing explicit file", func() {
			_, err := config.Load(filepath.Join(dir, "missing.yaml"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("read config"))
		})

		It("names the file in decode errors", func() {
			path := filepath.Join(dir, "bad.yaml")
			Expect(ioutil.WriteFile(path, []byte("bogus: 1\n"), 0644)).To(Succeed())
			_, err := config.Load(path)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(path))
		})
	})
})
