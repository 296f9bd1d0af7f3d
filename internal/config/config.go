package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/rainbowclock/internal/clock"
	"github.com/coreman2200/rainbowclock/internal/render"
	"github.com/coreman2200/rainbowclock/internal/segment"
)

type Display struct {
	Driver     string  `yaml:"driver"` // "ht16k33" | "sim"
	Bus        string  `yaml:"bus"`    // "" = first registered I2C bus
	Addr       uint16  `yaml:"addr"`
	Brightness float64 `yaml:"brightness"` // 0..1
}

type Strip struct {
	Driver     string `yaml:"driver"` // "apa102" | "ws2812" | "sim"
	Port       string `yaml:"port"`   // "" = first registered SPI port
	Length     int    `yaml:"length"`
	Brightness int    `yaml:"brightness"` // 0..31
	SpeedHz    int64  `yaml:"speed_hz"`   // 0 = driver default
	ColorOrder string `yaml:"color_order"`
}

type Config struct {
	Timezone    string `yaml:"timezone"`
	LogLevel    string `yaml:"log_level"`
	SimOnly     bool   `yaml:"sim_only"`
	FallbackSim bool   `yaml:"fallback_sim"`

	Display Display `yaml:"display"`
	Strip   Strip   `yaml:"strip"`
}

// Default is the stock clock: Berlin time, an HT16K33 backpack at 0x70 at
// half brightness, and seven APA102 pixels at the lowest global level.
func Default() *Config {
	return &Config{
		Timezone: clock.DefaultZone,
		LogLevel: "info",
		Display: Display{
			Driver:     "ht16k33",
			Addr:       segment.DefaultAddr,
			Brightness: 0.5,
		},
		Strip: Strip{
			Driver:     "apa102",
			Length:     render.DefaultStripLength,
			Brightness: 1,
			ColorOrder: "BGR",
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path as yaml, for use as a starting config file.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	switch c.Display.Driver {
	case "ht16k33", "sim":
	default:
		errs = append(errs, fmt.Errorf("display.driver: unknown driver %q", c.Display.Driver))
	}
	if c.Display.Brightness < 0 || c.Display.Brightness > 1 {
		errs = append(errs, fmt.Errorf("display.brightness: %v not in [0, 1]", c.Display.Brightness))
	}
	if c.Display.Addr > 0x7F {
		errs = append(errs, fmt.Errorf("display.addr: %#x is not a 7-bit address", c.Display.Addr))
	}

	switch c.Strip.Driver {
	case "apa102", "ws2812", "sim":
	default:
		errs = append(errs, fmt.Errorf("strip.driver: unknown driver %q", c.Strip.Driver))
	}
	if c.Strip.Length < 1 {
		errs = append(errs, fmt.Errorf("strip.length: %d, need at least 1", c.Strip.Length))
	}
	if c.Strip.Brightness < 0 || c.Strip.Brightness > 31 {
		errs = append(errs, fmt.Errorf("strip.brightness: %d not in [0, 31]", c.Strip.Brightness))
	}
	if c.Strip.SpeedHz < 0 {
		errs = append(errs, fmt.Errorf("strip.speed_hz: %d is negative", c.Strip.SpeedHz))
	}
	if !isPermutation(c.Strip.ColorOrder) {
		errs = append(errs, fmt.Errorf("strip.color_order: %q is not an ordering of RGB", c.Strip.ColorOrder))
	}
	return errors.Join(errs...)
}

// Location resolves Timezone; empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// Level is the parsed log level, info when unset or invalid.
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return l
}

func isPermutation(s string) bool {
	s = strings.ToUpper(s)
	return len(s) == 3 &&
		strings.Count(s, "R") == 1 &&
		strings.Count(s, "G") == 1 &&
		strings.Count(s, "B") == 1
}
