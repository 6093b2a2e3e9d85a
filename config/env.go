package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from the given files, .env if none
// are given.  Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// setting is one configuration value reachable from the environment and the
// command line.
type setting struct {
	flag  string
	env   string
	usage string
	value flag.Value
}

func (c *Config) settings() []setting {
	return []setting{
		{"volume", "FBPLAY_VOLUME", "directory or FAT image holding the video", (*stringValue)(&c.Volume)},
		{"partition", "FBPLAY_PARTITION", "partition of the FAT image, 0 if unpartitioned", (*intValue)(&c.Partition)},
		{"video", "FBPLAY_VIDEO", "path of the video container on the volume", (*stringValue)(&c.Video)},
		{"display", "FBPLAY_DISPLAY", "display backend, fbdev or memory", (*stringValue)(&c.Display.Backend)},
		{"device", "FBPLAY_DEVICE", "framebuffer device", (*stringValue)(&c.Display.Device)},
		{"width", "FBPLAY_WIDTH", "memory display width", (*intValue)(&c.Display.Width)},
		{"height", "FBPLAY_HEIGHT", "memory display height", (*intValue)(&c.Display.Height)},
		{"stride", "FBPLAY_STRIDE", "memory display stride in pixels", (*intValue)(&c.Display.Stride)},
		{"cores", "FBPLAY_CORES", "maximum number of playback cores, 0 for all", (*intValue)(&c.Cores)},
		{"processors", "FBPLAY_PROCESSORS", "override the number of enabled processors", (*intValue)(&c.Processors)},
		{"nopin", "FBPLAY_NOPIN", "do not pin cores to CPUs", (*boolValue)(&c.NoPin)},
		{"metrics", "FBPLAY_METRICS", "metrics listen address, empty to disable", (*stringValue)(&c.Metrics)},
		{"log-level", "FBPLAY_LOG_LEVEL", "debug, info, warn or error", (*stringValue)(&c.LogLevel)},
		{"log-format", "FBPLAY_LOG_FORMAT", "text or json", (*stringValue)(&c.LogFormat)},
		{"fatal-stall", "FBPLAY_FATAL_STALL", "how long fatal errors stay on screen", (*durationValue)(&c.FatalStall)},
	}
}

// ApplyEnv overrides c with the FBPLAY_* variables that are set.
func (c *Config) ApplyEnv() error {
	for _, s := range c.settings() {
		v, ok := os.LookupEnv(s.env)
		if !ok || v == "" {
			continue
		}
		if err := s.value.Set(v); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, s.env, v, err)
		}
	}
	return nil
}

// Flags collects command line overrides.
type Flags struct {
	fs  *flag.FlagSet
	cfg Config
}

// BindFlags registers one flag per setting on fs.  Call Apply after parsing.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	for _, s := range f.cfg.settings() {
		fs.Var(s.value, s.flag, s.usage)
	}
	return f
}

// Apply copies the flags given on the command line into c.
func (f *Flags) Apply(c *Config) error {
	target := make(map[string]flag.Value)
	for _, s := range c.settings() {
		target[s.flag] = s.value
	}
	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		if t, ok := target[fl.Name]; ok && err == nil {
			err = t.Set(fl.Value.String())
		}
	})
	return err
}

type stringValue string

func (v *stringValue) Set(s string) error { *v = stringValue(s); return nil }
func (v *stringValue) String() string     { return string(*v) }

type intValue int

func (v *intValue) Set(s string) error {
	n, err := strconv.Atoi(s)
	*v = intValue(n)
	return err
}
func (v *intValue) String() string { return strconv.Itoa(int(*v)) }

type boolValue bool

func (v *boolValue) Set(s string) error {
	b, err := strconv.ParseBool(s)
	*v = boolValue(b)
	return err
}
func (v *boolValue) String() string   { return strconv.FormatBool(bool(*v)) }
func (v *boolValue) IsBoolFlag() bool { return true }

type durationValue time.Duration

func (v *durationValue) Set(s string) error {
	d, err := time.ParseDuration(s)
	*v = durationValue(d)
	return err
}
func (v *durationValue) String() string { return time.Duration(*v).String() }
