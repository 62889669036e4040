package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const fileName = "localdiagram.toml"

type Config struct {
	Window       Window  `toml:"window"`
	ToolbarWidth float32 `toml:"toolbar_width"`
	Share        Share   `toml:"share"`
	// Seed fixes the random shape placement. Zero means seed from the clock.
	Seed         int64   `toml:"seed"`
}

type Window struct {
	Title  string  `toml:"title"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

type Share struct {
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  "Local Diagram",
			Width:  1024,
			Height: 768,
		},
		ToolbarWidth: 200,
		Share: Share{
			Port:      8888,
			Advertise: true,
		},
	}
}

// DefaultPath is the config file in the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return fileName
	}
	return filepath.Join(dir, "localdiagram", fileName)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("could not read config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %vx%v must be positive", c.Window.Width, c.Window.Height)
	}
	if c.ToolbarWidth < 0 || c.ToolbarWidth >= c.Window.Width {
		return fmt.Errorf("toolbar width %v must be within the window width", c.ToolbarWidth)
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		return fmt.Errorf("share port %d out of range", c.Share.Port)
	}
	return nil
}
