/*
Copyright © 2023 Rob Haswell <rob@haswell.co.uk>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads tclremote settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.bug.st/serial"

	"github.com/robhaswell/tclremote/link"
	"github.com/robhaswell/tclremote/logging"
)

const (
	EnvPort       = "TCLREMOTE_PORT"
	EnvBaud       = "TCLREMOTE_BAUD"
	EnvDriver     = "TCLREMOTE_DRIVER"
	EnvLogLevel   = "TCLREMOTE_LOG_LEVEL"
	EnvLogNoColor = "TCLREMOTE_LOG_NOCOLOR"
)

const defaultFileName = ".tclremote.toml"

type Config struct {
	Serial Serial            `toml:"serial"`
	Log    Log               `toml:"log"`
	Codes  map[string]string `toml:"codes"`
}

type Serial struct {
	Port         string   `toml:"port"`
	BaudRate     int      `toml:"baud_rate"`
	DataBits     int      `toml:"data_bits"`
	Parity       string   `toml:"parity"`
	StopBits     StopBits `toml:"stop_bits"`
	Driver       string   `toml:"driver"`
	WriteTimeout Duration `toml:"write_timeout"`
}

type Log struct {
	Level   string `toml:"level"`
	NoColor bool   `toml:"no_color"`
}

// Duration reads values such as "1.5s" from TOML strings.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// StopBits accepts 1, 1.5 or 2 written as a TOML integer, float or string.
type StopBits float64

func (s *StopBits) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case int64:
		*s = StopBits(v)
	case float64:
		*s = StopBits(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid stop bits %q", v)
		}
		*s = StopBits(f)
	default:
		return fmt.Errorf("invalid stop bits %v", v)
	}
	return nil
}

func Default() Config {
	return Config{
		Serial: Serial{
			Port:     link.DefaultPortName,
			BaudRate: link.DefaultBaudRate,
			DataBits: link.DefaultDataBits,
			Parity:   "none",
			StopBits: 2,
			Driver:   link.DriverBugst,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// DefaultPath is $HOME/.tclremote.toml, or "" when there is no home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultFileName)
}

// Load reads path over the defaults. An empty path falls back to
// DefaultPath, and a missing default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config load failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from TCLREMOTE_* variables. Malformed values are
// reported rather than ignored.
func ApplyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		cfg.Serial.Port = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaud)); v != "" {
		baud, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBaud, err)
		}
		cfg.Serial.BaudRate = baud
	}
	if v := strings.TrimSpace(os.Getenv(EnvDriver)); v != "" {
		cfg.Serial.Driver = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogNoColor)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogNoColor, err)
		}
		cfg.Log.NoColor = b
	}
	return nil
}

func (c Config) Validate() error {
	opts, err := c.Serial.Options()
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Options converts the serial section for link.Open.
func (s Serial) Options() (link.Options, error) {
	opts := link.Options{
		PortName:     s.Port,
		BaudRate:     s.BaudRate,
		DataBits:     s.DataBits,
		Driver:       s.Driver,
		WriteTimeout: s.WriteTimeout.Duration,
	}
	switch strings.ToLower(strings.TrimSpace(s.Parity)) {
	case "", "none", "n":
		opts.Parity = serial.NoParity
	case "odd", "o":
		opts.Parity = serial.OddParity
	case "even", "e":
		opts.Parity = serial.EvenParity
	case "mark", "m":
		opts.Parity = serial.MarkParity
	case "space", "s":
		opts.Parity = serial.SpaceParity
	default:
		return link.Options{}, fmt.Errorf("invalid parity %q", s.Parity)
	}
	switch s.StopBits {
	case 1:
		opts.StopBits = serial.OneStopBit
	case 1.5:
		opts.StopBits = serial.OnePointFiveStopBits
	case 2:
		opts.StopBits = serial.TwoStopBits
	default:
		return link.Options{}, fmt.Errorf("invalid stop bits %v", float64(s.StopBits))
	}
	if s.WriteTimeout.Duration < 0 {
		return link.Options{}, fmt.Errorf("invalid write timeout %v", s.WriteTimeout.Duration)
	}
	return opts, nil
}
