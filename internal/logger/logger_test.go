package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/db47h/hwdiv/internal/logger"
	. "github.com/onsi/gomega"
)

func TestNew(t *testing.T) {
	g := NewGomegaWithT(t)

	var buf bytes.Buffer
	l, err := logger.New("debug", logger.FormatJSON, &buf)
	g.Expect(err).NotTo(HaveOccurred())
	l.WithField("width", 8).Debug("hello")

	var entry map[string]interface{}
	g.Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
	g.Expect(entry).To(HaveKeyWithValue("msg", "hello"))
	g.Expect(entry).To(HaveKeyWithValue("level", "debug"))
	g.Expect(entry).To(HaveKeyWithValue("width", BeNumerically("==", 8)))
}

func TestNew_text(t *testing.T) {
	g := NewGomegaWithT(t)

	var buf bytes.Buffer
	l, err := logger.New("warn", "", &buf)
	g.Expect(err).NotTo(HaveOccurred())
	l.Info("dropped")
	l.Warn("kept")
	g.Expect(buf.String()).NotTo(ContainSubstring("dropped"))
	g.Expect(buf.String()).To(ContainSubstring(`msg=kept`))
	g.Expect(buf.String()).NotTo(ContainSubstring("\x1b["))
}

func TestNew_errors(t *testing.T) {
	g := NewGomegaWithT(t)

	_, err := logger.New("loud", logger.FormatText, &bytes.Buffer{})
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("invalid log level"))
	_, err = logger.New("info", "xml", &bytes.Buffer{})
	g.Expect(err).To(MatchError(`invalid log format "xml"`))
}
