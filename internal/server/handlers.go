// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/db47h/hwdiv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Status is the status field of every response.
//
type Status uint32

// Response status values.
const (
	Okay Status = iota + 1
	Error
)

// MarshalJSON implements json.Marshaler.
//
func (s Status) MarshalJSON() ([]byte, error) {
	switch s {
	case Okay:
		return json.Marshal("ok")
	case Error:
		return json.Marshal("error")
	}
	return nil, errors.Errorf("unknown status %d", uint32(s))
}

// UnmarshalJSON implements json.Unmarshaler.
//
func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v {
	case "ok":
		*s = Okay
	case "error":
		*s = Error
	default:
		return errors.Errorf("unknown status %q", v)
	}
	return nil
}

// Operands is a division request.
//
type Operands struct {
	Dividend *int64 `json:"dividend"`
	Divisor  *int64 `json:"divisor"`
}

// Division is the result of one division.
//
type Division struct {
	hwdiv.Result
	Ticks int `json:"ticks"`
}

// ResponseSimple is returned by /health and on errors.
//
type ResponseSimple struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// ResponseConfig is returned by /config.
//
type ResponseConfig struct {
	Status     Status `json:"status"`
	Width      int    `json:"width"`
	StepWidth  int    `json:"step_width"`
	SyncStages int    `json:"sync_stages"`
	Latency    int    `json:"latency"`
}

// ResponseDivide is returned by /divide.
//
type ResponseDivide struct {
	Status Status `json:"status"`
	Division
}

// ResponseBatch is returned by /divide/batch.
//
type ResponseBatch struct {
	Status  Status     `json:"status"`
	Results []Division `json:"results"`
}

const maxBody = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, ResponseSimple{Status: Okay})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, ResponseConfig{
		Status:     Okay,
		Width:      s.cfg.Width,
		StepWidth:  s.cfg.StepWidth,
		SyncStages: s.cfg.SyncStages,
		Latency:    s.cfg.Latency(),
	})
}

func (s *Server) handleDivide(w http.ResponseWriter, r *http.Request) {
	var ops Operands
	if err := decode(r.Body, &ops); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	d := hwdiv.MustNew(s.cfg)
	res, err := s.divide(d, ops)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	s.logger(r).WithFields(logrus.Fields{
		"dividend":  *ops.Dividend,
		"divisor":   *ops.Divisor,
		"quotient":  res.Quotient,
		"remainder": res.Remainder,
	}).Info("division")
	s.respond(w, r, http.StatusOK, ResponseDivide{Status: Okay, Division: res})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var batch []Operands
	if err := decode(r.Body, &batch); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	if len(batch) > MaxBatch {
		s.fail(w, r, http.StatusRequestEntityTooLarge, errors.Errorf("batch too large: %d > %d", len(batch), MaxBatch))
		return
	}
	d := hwdiv.MustNew(s.cfg)
	rs := make([]Division, 0, len(batch))
	for i, ops := range batch {
		res, err := s.divide(d, ops)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, errors.Wrapf(err, "item %d", i))
			return
		}
		rs = append(rs, res)
	}
	s.logger(r).WithField("count", len(rs)).Info("batch division")
	s.respond(w, r, http.StatusOK, ResponseBatch{Status: Okay, Results: rs})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.fail(w, r, http.StatusNotFound, errors.Errorf("no route for %s", r.URL.Path))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.fail(w, r, http.StatusMethodNotAllowed, errors.Errorf("method %s not allowed on %s", r.Method, r.URL.Path))
}

// divide runs one division on d, which must be ready for input.
//
func (s *Server) divide(d *hwdiv.Divider, ops Operands) (Division, error) {
	if ops.Dividend == nil || ops.Divisor == nil {
		return Division{}, errors.New("missing dividend or divisor")
	}
	a, b := *ops.Dividend, *ops.Divisor
	if !hwdiv.Fits(a, s.cfg.Width) || !hwdiv.Fits(b, s.cfg.Width) {
		return Division{}, errors.Errorf("operands %d, %d do not fit in %d bits", a, b, s.cfg.Width)
	}
	d.Load(a, b)
	n := d.Run()
	return Division{Result: d.Read(), Ticks: n}, nil
}

func decode(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "invalid JSON request")
	}
	return nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	s.logger(r).WithError(err).WithField("code", code).Warn("request failed")
	s.respond(w, r, code, ResponseSimple{Status: Error, Message: err.Error()})
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger(r).WithError(err).Error("marshal response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
		s.logger(r).WithError(err).Debug("write response")
	}
}
