package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Config holds the configuration for the simulation
type Config struct {
	Width          int           `json:"width"`
	Height         int           `json:"height"`
	FrameRate      time.Duration `json:"frame_rate"`
	Display        bool          `json:"display"`
	RandomDensity  float64       `json:"random_density"`
	Seed           int64         `json:"seed"`
	MaxGenerations int           `json:"max_generations"`
	Runs           int           `json:"runs"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:          32,
		Height:         32,
		FrameRate:      100 * time.Millisecond,
		Display:        true,
		RandomDensity:  0.5,
		Seed:           0, // 0 derives a seed from the clock
		MaxGenerations: 0, // 0 means unlimited
		Runs:           1,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Validate rejects configurations the simulation cannot run with
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("[Validate] board dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FrameRate < 0 {
		return errors.Errorf("[Validate] frame rate must not be negative, got %v", c.FrameRate)
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Errorf("[Validate] random density must be in [0, 1], got %v", c.RandomDensity)
	}
	if c.Runs < 1 {
		return errors.Errorf("[Validate] runs must be at least 1, got %d", c.Runs)
	}
	if c.MaxGenerations < 0 {
		return errors.Errorf("[Validate] max generations must not be negative, got %d", c.MaxGenerations)
	}
	return nil
}
