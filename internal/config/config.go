// Package config handles citegraph configuration: a global YAML file,
// optional .env files and CITEGRAPH_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the tunable settings of a run.
type Config struct {
	Font           string  `yaml:"font,omitempty"`
	EarliestHue    float64 `yaml:"earliest_hue"`
	LatestHue      float64 `yaml:"latest_hue"`
	Extractor      string  `yaml:"extractor,omitempty"`      // pdftotext or builtin
	PDFToTextPath  string  `yaml:"pdftotext_path,omitempty"` // executable for the pdftotext extractor
	Workers        int     `yaml:"workers,omitempty"`
	OnExtractError string  `yaml:"on_extract_error,omitempty"` // fail or skip
	ManifestPath   string  `yaml:"manifest_path,omitempty"`    // empty disables the manifest
}

// Values accepted for OnExtractError.
const (
	OnExtractErrorFail = "fail"
	OnExtractErrorSkip = "skip"
)

// Environment variables that override the config file.
const (
	EnvFont           = "CITEGRAPH_FONT"
	EnvExtractor      = "CITEGRAPH_EXTRACTOR"
	EnvWorkers        = "CITEGRAPH_WORKERS"
	EnvOnExtractError = "CITEGRAPH_ON_EXTRACT_ERROR"
	EnvManifest       = "CITEGRAPH_MANIFEST"
)

// ValidExtractors lists the supported extractor values.
var ValidExtractors = []string{"pdftotext", "builtin"}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Font:           "DejaVuSans",
		EarliestHue:    0.83,
		LatestHue:      0,
		Extractor:      "pdftotext",
		PDFToTextPath:  "pdftotext",
		Workers:        1,
		OnExtractError: OnExtractErrorFail,
	}
}

// LoadEnv loads a .env file from the working directory if there is one.
func LoadEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides settings from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvFont); v != "" {
		c.Font = v
	}
	if v := getenv(EnvExtractor); v != "" {
		c.Extractor = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvWorkers, v)
		}
		c.Workers = n
	}
	if v := getenv(EnvOnExtractError); v != "" {
		c.OnExtractError = v
	}
	if v := getenv(EnvManifest); v != "" {
		c.ManifestPath = v
	}
	return nil
}

// Validate checks that every setting has an acceptable value.
func (c *Config) Validate() error {
	if c.Font == "" {
		return fmt.Errorf("%w: font must not be empty", ErrInvalid)
	}
	if err := validateHue("earliest_hue", c.EarliestHue); err != nil {
		return err
	}
	if err := validateHue("latest_hue", c.LatestHue); err != nil {
		return err
	}
	if !isValidExtractor(c.Extractor) {
		return fmt.Errorf("%w: extractor %q (valid: %v)", ErrInvalid, c.Extractor, ValidExtractors)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	switch c.OnExtractError {
	case OnExtractErrorFail, OnExtractErrorSkip:
	default:
		return fmt.Errorf("%w: on_extract_error %q (valid: fail, skip)", ErrInvalid, c.OnExtractError)
	}
	return nil
}

// SkipFailedExtractions reports whether extraction failures skip the paper.
func (c *Config) SkipFailedExtractions() bool {
	return c.OnExtractError == OnExtractErrorSkip
}

func validateHue(name string, h float64) error {
	if h < 0 || h > 1 {
		return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalid, name, h)
	}
	return nil
}

func isValidExtractor(name string) bool {
	for _, valid := range ValidExtractors {
		if name == valid {
			return true
		}
	}
	return false
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
