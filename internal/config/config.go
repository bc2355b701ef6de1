// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the hwdiv configuration file.
package config

import (
	"io/ioutil"
	"os"

	"github.com/db47h/hwdiv"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "~/.hwdiv.yaml"

// Divider configures the divider model.
type Divider struct {
	Width      int `mapstructure:"width" json:"width"`
	StepWidth  int `mapstructure:"step_width" json:"step_width"`
	SyncStages int `mapstructure:"sync_stages" json:"sync_stages"`
}

// Circuit configures circuit level simulations.
type Circuit struct {
	Workers       int  `mapstructure:"workers" json:"workers"`
	StepsPerCycle uint `mapstructure:"steps_per_cycle" json:"steps_per_cycle"`
}

// Log configures logging.
type Log struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Server configures the HTTP server.
type Server struct {
	Addr string `mapstructure:"addr" json:"addr"`
	Port int    `mapstructure:"port" json:"port"`
}

// Config is the content of a configuration file.
type Config struct {
	Divider Divider `mapstructure:"divider" json:"divider"`
	Circuit Circuit `mapstructure:"circuit" json:"circuit"`
	Log     Log     `mapstructure:"log" json:"log"`
	Server  Server  `mapstructure:"server" json:"server"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Divider: Divider{Width: 32, StepWidth: 1},
		Circuit: Circuit{StepsPerCycle: 8},
		Log:     Log{Level: "info", Format: "text"},
		Server:  Server{Addr: "127.0.0.1", Port: 8080},
	}
}

// DividerConfig converts the divider section to a hwdiv.Config.
func (c *Config) DividerConfig() hwdiv.Config {
	return hwdiv.Config{
		Width:      c.Divider.Width,
		StepWidth:  c.Divider.StepWidth,
		SyncStages: c.Divider.SyncStages,
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := hwdiv.New(c.DividerConfig()); err != nil {
		return errors.Wrap(err, "divider")
	}
	if c.Circuit.Workers < 0 {
		return errors.Errorf("circuit: invalid worker count %d", c.Circuit.Workers)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Errorf("server: invalid port %d", c.Server.Port)
	}
	return nil
}

// Load reads the configuration file at path on top of the defaults. A leading
// ~ in path is expanded to the user's home directory. If path is empty,
// DefaultPath is used and a missing file is not an error.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultPath
	}
	full, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expand %s", path)
	}
	data, err := ioutil.ReadFile(full)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, full)
	}
	return c, nil
}

// Parse decodes YAML configuration data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	c := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(convertKeys(raw)); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// convertKeys turns the map[interface{}]interface{} values that yaml.v2
// produces for nested mappings into map[string]interface{}.
func convertKeys(v interface{}) interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		for k, v := range m {
			m[k] = convertKeys(v)
		}
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[toString(k)] = convertKeys(v)
		}
		return out
	case []interface{}:
		for i := range m {
			m[i] = convertKeys(m[i])
		}
	}
	return v
}

func toString(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	b, _ := yaml.Marshal(k)
	return string(b[:len(b)-1])
}
