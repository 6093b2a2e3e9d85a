// Package config loads the player configuration.
//
// Values come from, in increasing precedence: built in defaults, a YAML
// file, FBPLAY_* environment variables (optionally from a .env file) and
// command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

// Display selects and configures the display surface.
type Display struct {
	// Backend is "fbdev" or "memory".
	Backend string `yaml:"backend"`
	Device  string `yaml:"device"`

	// Mode of the memory backend, in pixels.  Stride defaults to Width.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Stride int `yaml:"stride"`
}

// RowStride returns Stride, or Width if Stride is unset.
func (d Display) RowStride() int {
	if d.Stride == 0 {
		return d.Width
	}
	return d.Stride
}

type Config struct {
	// Volume is a directory or a FAT disk image holding the video.
	Volume    string `yaml:"volume"`
	Partition int    `yaml:"partition"`
	Video     string `yaml:"video"`

	Display Display `yaml:"display"`

	// Cores limits the number of playback cores, 0 uses all enabled ones.
	Cores int `yaml:"cores"`
	// Processors overrides the number of enabled processors.
	Processors int  `yaml:"processors"`
	NoPin      bool `yaml:"noPin"`

	// Metrics is the listen address of the metrics endpoint, empty disables
	// it.
	Metrics string `yaml:"metrics"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	// FatalStall is how long a fatal error stays on screen.
	FatalStall time.Duration `yaml:"fatalStall"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var c Config
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Volume == "" {
		c.Volume = "."
	}
	if c.Video == "" {
		c.Video = "1080p/video.qois"
	}
	if c.Display.Backend == "" {
		c.Display.Backend = "fbdev"
	}
	if c.Display.Device == "" {
		c.Display.Device = "/dev/fb0"
	}
	if c.Display.Width == 0 && c.Display.Height == 0 {
		c.Display.Width, c.Display.Height = 1920, 1080
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.FatalStall == 0 {
		c.FatalStall = time.Minute
	}
}

// Parse parses a YAML configuration and fills in defaults.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.setDefaults()
	return c, nil
}

// Load reads the YAML file at path.  An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Marshal returns c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	switch c.Display.Backend {
	case "fbdev", "memory":
	default:
		return fmt.Errorf("%w: display backend %q", ErrInvalid, c.Display.Backend)
	}
	if c.Display.Backend == "memory" {
		d := c.Display
		if d.Width <= 0 || d.Height <= 0 || d.RowStride() < d.Width {
			return fmt.Errorf("%w: memory display %dx%d stride %d", ErrInvalid, d.Width, d.Height, d.Stride)
		}
	}
	if c.Cores < 0 || c.Processors < 0 || c.Partition < 0 {
		return fmt.Errorf("%w: negative count", ErrInvalid)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.LogFormat)
	}
	return nil
}
