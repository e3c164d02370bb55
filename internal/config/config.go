package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Counts sets how many slots of each built-in kind the scene places.
type Counts struct {
	Balls      int `yaml:"balls"`
	Boxes      int `yaml:"boxes"`
	Stars      int `yaml:"stars"`
	Candies    int `yaml:"candies"`
	Crystals   int `yaml:"crystals"`
	Lights     int `yaml:"lights"`
	Snowflakes int `yaml:"snowflakes"`
}

// Geometry overrides the tree cone the layout runs on. Zero fields keep the
// tuned defaults.
type Geometry struct {
	BaseRadius float64 `yaml:"base_radius"`
	Apex       float64 `yaml:"apex"`
	Height     float64 `yaml:"height"`
}

// SPI configures the optional LED strip output.
type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2400000
}

// Viewport is the host surface the scene composes for.
type Viewport struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type Config struct {
	Driver     string  `yaml:"driver"` // "fake" | "ledstrip" | "preview"
	FPS        int     `yaml:"fps"`
	Brightness float64 `yaml:"brightness"`
	Addr       string  `yaml:"addr"`
	StorePath  string  `yaml:"store_path"`

	Counts   Counts   `yaml:"counts"`
	Geometry Geometry `yaml:"geometry,omitempty"`
	Viewport Viewport `yaml:"viewport,omitempty"`
	SPI      SPI      `yaml:"spi,omitempty"`
}

// Default returns the configuration the scene was tuned with.
func Default() *Config {
	return &Config{
		Driver:     "fake",
		FPS:        60,
		Brightness: 0.9,
		Addr:       ":8080",
		StorePath:  "photos.json",
		Counts: Counts{
			Balls:      60,
			Boxes:      20,
			Stars:      12,
			Candies:    24,
			Crystals:   16,
			Lights:     120,
			Snowflakes: 80,
		},
		Viewport: Viewport{W: 1280, H: 800},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
