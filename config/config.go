package config

import (
	"fmt"
	"os"

	"creatrends/models"

	"github.com/BurntSushi/toml"
)

// ChannelCatalog maps a category to its ordered list of source channels
type ChannelCatalog map[models.Category][]string

// TomlCatalog holds the synthetic catalog generation parameters
type TomlCatalog struct {
	BaseViews  int64 `toml:"base_views"`
	ViewStep   int64 `toml:"view_step"`
	PerChannel int   `toml:"per_channel"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Channels map[string][]string `toml:"channels"`
	Catalog  TomlCatalog         `toml:"catalog"`
}

// Config is the validated configuration used at runtime
type Config struct {
	Channels   ChannelCatalog
	BaseViews  int64
	ViewStep   int64
	PerChannel int
}

const (
	DefaultBaseViews  = 12000
	DefaultViewStep   = 500
	DefaultPerChannel = 4
)

func DefaultChannels() ChannelCatalog {
	return ChannelCatalog{
		models.Fashion: {"burimovasasha", "rogov24", "zarina_brand", "limeofficial", "ekonika", "sela_brand", "lichi", "befree_community", "mordorblog", "bymirraa"},
		models.Beauty:  {"goldapple_ru", "glamguruu", "marietells", "sofikshenzdes", "writeforfriends"},
		models.Home:    {"casacozy", "homiesapiens", "home_where", "objectdesigner"},
	}
}

func Default() *Config {
	return &Config{
		Channels:   DefaultChannels(),
		BaseViews:  DefaultBaseViews,
		ViewStep:   DefaultViewStep,
		PerChannel: DefaultPerChannel,
	}
}

// LoadConfig reads a TOML file. An empty path yields the built-in defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	var raw TomlConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg := Default()

	// Channel tables replace the defaults as a whole when present
	if len(raw.Channels) > 0 {
		cfg.Channels = ChannelCatalog{}
		for name, channels := range raw.Channels {
			category, err := models.ParseCategory(name)
			if err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
			cfg.Channels[category] = channels
		}
	}

	if raw.Catalog.BaseViews != 0 {
		cfg.BaseViews = raw.Catalog.BaseViews
	}
	if raw.Catalog.ViewStep != 0 {
		cfg.ViewStep = raw.Catalog.ViewStep
	}
	if raw.Catalog.PerChannel != 0 {
		cfg.PerChannel = raw.Catalog.PerChannel
	}

	if cfg.BaseViews < 0 || cfg.ViewStep < 0 || cfg.PerChannel < 0 {
		return nil, fmt.Errorf("catalog parameters must not be negative")
	}
	if cfg.BaseViews-int64(cfg.PerChannel)*cfg.ViewStep < 0 {
		return nil, fmt.Errorf("catalog would generate negative view counts")
	}

	return cfg, nil
}
