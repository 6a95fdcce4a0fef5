// Package config loads the demo's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// NumButtons is the number of play buttons, one per playback slot.
const NumButtons = 2

// Config is the full application configuration.
type Config struct {
	// Title is shown as the heading and window title.
	Title string `yaml:"title"`

	Animation Animation `yaml:"animation"`

	// Buttons are the play buttons, in slot order.
	Buttons []Button `yaml:"buttons"`

	Haptics Haptics `yaml:"haptics"`

	Log Log `yaml:"log"`
}

// Animation selects the animation file and its state machine.
type Animation struct {
	File         string `yaml:"file"`
	StateMachine string `yaml:"state_machine"`
}

// Button binds a label to an animation trigger and a haptic pattern.
type Button struct {
	Label   string `yaml:"label"`
	Trigger string `yaml:"trigger"`
	Pattern string `yaml:"pattern"`
}

// Haptics configures the actuator.
type Haptics struct {
	Enabled bool `yaml:"enabled"`
	// PatternsDir overrides the bundled patterns when set.
	PatternsDir  string        `yaml:"patterns_dir"`
	Gain         float64       `yaml:"gain"`
	IdleShutdown time.Duration `yaml:"idle_shutdown"`
}

// Log configures the diagnostic log.
type Log struct {
	// File is the log destination. Empty discards diagnostics.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Title: "Rive + Haptics demo",
		Animation: Animation{
			File:         "heart",
			StateMachine: "heart",
		},
		Buttons: []Button{
			{Label: "play1", Trigger: "play1", Pattern: "heartbeat1"},
			{Label: "play2", Trigger: "play2", Pattern: "heartbeat2"},
		},
		Haptics: Haptics{
			Enabled:      true,
			Gain:         1,
			IdleShutdown: 30 * time.Second,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Animation.File == "" || c.Animation.StateMachine == "" {
		errs = append(errs, errors.New("animation file and state_machine are required"))
	}
	if len(c.Buttons) != NumButtons {
		errs = append(errs, fmt.Errorf("expected %d buttons, got %d", NumButtons, len(c.Buttons)))
	}
	seen := make(map[string]bool)
	for i, b := range c.Buttons {
		if b.Pattern == "" {
			errs = append(errs, fmt.Errorf("button %d: pattern is required", i+1))
		}
		if b.Trigger == "" {
			errs = append(errs, fmt.Errorf("button %d: trigger is required", i+1))
		} else if seen[b.Trigger] {
			errs = append(errs, fmt.Errorf("button %d: duplicate trigger %q", i+1, b.Trigger))
		}
		seen[b.Trigger] = true
	}
	if c.Haptics.Gain < 0 || c.Haptics.Gain > 1 {
		errs = append(errs, fmt.Errorf("haptics gain %v out of range [0, 1]", c.Haptics.Gain))
	}
	if c.Haptics.IdleShutdown < 0 {
		errs = append(errs, errors.New("haptics idle_shutdown must not be negative"))
	}
	return errors.Join(errs...)
}

// Patterns returns the pattern name for each slot.
func (c Config) Patterns() [NumButtons]string {
	var p [NumButtons]string
	for i := 0; i < NumButtons && i < len(c.Buttons); i++ {
		p[i] = c.Buttons[i].Pattern
	}
	return p
}
