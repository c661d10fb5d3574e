package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const profileEnv = "IECTL_PROFILE"

// Profile is the YAML settings file:
//
//	engine: bg2
//	override_dir: /games/bg2/override
//	tlk: /games/bg2/dialog.tlk
//	tolerant: false
//	log:
//	  enabled: true
//	  dir: /tmp/iectl
//	  level: debug
type Profile struct {
	Engine      string     `yaml:"engine"`
	OverrideDir string     `yaml:"override_dir"`
	TLK         string     `yaml:"tlk"`
	Tolerant    bool       `yaml:"tolerant"`
	Log         LogProfile `yaml:"log"`
}

// LogProfile configures the file logger.
type LogProfile struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Level   string `yaml:"level"`
}

func (l LogProfile) level() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return level, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("profile: log level: %w", err)
	}
	return level, nil
}

// loadProfile reads a profile. Unknown keys are rejected.
func loadProfile(path string) (Profile, error) {
	var p Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("profile: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return p, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// applyProfile copies profile settings into the globals whose flags were
// not given on the command line.
func applyProfile(flags *pflag.FlagSet, p Profile) {
	set := func(name string, dst *string, v string) {
		if v != "" && !flags.Changed(name) {
			*dst = v
		}
	}
	set("engine", &engineName, p.Engine)
	set("override", &overrideDir, p.OverrideDir)
	set("tlk", &tlkPath, p.TLK)
	if p.Tolerant && !flags.Changed("tolerant") {
		tolerant = true
	}
}
