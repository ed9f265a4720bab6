// Package config loads drift settings from a config file, the environment
// and an optional .env file.
//
// Every key can be overridden with a DRIFT_ environment variable; nested
// keys use underscores, so ambient.speed_x becomes DRIFT_AMBIENT_SPEED_X.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/phanxgames/drift"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "DRIFT"

// Window holds host window settings.
type Window struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// Covers says where cover images come from. Dir wins over URL.
type Covers struct {
	Dir      string
	URL      string
	Catalog  string
	MaxBytes int64
	Workers  int
	Preload  bool
}

// Log configures logging. An empty File logs to stderr.
type Log struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Config is the resolved settings.
type Config struct {
	Mode              drift.PlacementMode
	AmbientSpeed      drift.Vec2
	ClickDeadZone     float64
	DisableAnimations bool
	Debug             bool
	Script            string
	ScreenshotDir     string

	Profiles drift.ProfileTable

	Window Window
	Covers Covers
	Log    Log
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "aligned")
	v.SetDefault("ambient.speed_x", 0.0)
	v.SetDefault("ambient.speed_y", 0.0)
	v.SetDefault("click_dead_zone", 4.0)
	v.SetDefault("disable_animations", false)
	v.SetDefault("debug", false)
	v.SetDefault("script", "")
	v.SetDefault("screenshot_dir", "screenshots")

	v.SetDefault("window.title", "drift")
	v.SetDefault("window.width", 1024)
	v.SetDefault("window.height", 768)
	v.SetDefault("window.show_fps", false)

	v.SetDefault("covers.dir", "")
	v.SetDefault("covers.url", "")
	v.SetDefault("covers.catalog", "")
	v.SetDefault("covers.max_bytes", int64(256<<20))
	v.SetDefault("covers.workers", 4)
	v.SetDefault("covers.preload", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads configFile (YAML, TOML or JSON by extension) if non-empty, then
// applies environment overrides. envFiles are loaded into the environment
// first without replacing variables that are already set; with none given,
// a .env in the working directory is used if present.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if err := loadEnv(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}
	return decode(v)
}

func loadEnv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: env files: %w", err)
	}
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	mode, ok := drift.ParsePlacementMode(v.GetString("mode"))
	if !ok {
		return nil, fmt.Errorf("config: unknown mode %q", v.GetString("mode"))
	}
	cfg := &Config{
		Mode: mode,
		AmbientSpeed: drift.Vec2{
			X: v.GetFloat64("ambient.speed_x"),
			Y: v.GetFloat64("ambient.speed_y"),
		},
		ClickDeadZone:     v.GetFloat64("click_dead_zone"),
		DisableAnimations: v.GetBool("disable_animations"),
		Debug:             v.GetBool("debug"),
		Script:            v.GetString("script"),
		ScreenshotDir:     v.GetString("screenshot_dir"),
		Window: Window{
			Title:   v.GetString("window.title"),
			Width:   v.GetInt("window.width"),
			Height:  v.GetInt("window.height"),
			ShowFPS: v.GetBool("window.show_fps"),
		},
		Covers: Covers{
			Dir:      v.GetString("covers.dir"),
			URL:      v.GetString("covers.url"),
			Catalog:  v.GetString("covers.catalog"),
			MaxBytes: v.GetInt64("covers.max_bytes"),
			Workers:  v.GetInt("covers.workers"),
			Preload:  v.GetBool("covers.preload"),
		},
		Log: Log{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return nil, fmt.Errorf("config: window size %dx%d must be positive", cfg.Window.Width, cfg.Window.Height)
	}

	profiles, err := decodeProfiles(v)
	if err != nil {
		return nil, err
	}
	cfg.Profiles = profiles
	return cfg, nil
}

var classKeys = map[drift.DeviceClass]string{
	drift.DeviceDesktop: "desktop",
	drift.DeviceTablet:  "tablet",
	drift.DeviceMobile:  "mobile",
}

// decodeProfiles starts from the built-in table and applies any
// profiles.<class>.* keys that are set.
func decodeProfiles(v *viper.Viper) (drift.ProfileTable, error) {
	table := drift.DefaultProfiles()
	for class, name := range classKeys {
		p := table[class]
		prefix := "profiles." + name + "."

		setInt(v, prefix+"buffer_sectors", &p.BufferSectors)
		setFloat(v, prefix+"cover_radius", &p.CoverRadius)
		setFloat(v, prefix+"edge_fade_zone", &p.EdgeFadeZone)
		setFloat(v, prefix+"edge_min_scale", &p.EdgeMinScale)

		setFloat(v, prefix+"aligned.tile_width", &p.Aligned.TileWidth)
		setFloat(v, prefix+"aligned.tile_height", &p.Aligned.TileHeight)
		setFloat(v, prefix+"aligned.gap_x", &p.Aligned.GapX)
		setFloat(v, prefix+"aligned.gap_y", &p.Aligned.GapY)

		setFloat(v, prefix+"organic.sector_size", &p.Organic.SectorSize)
		setFloat(v, prefix+"organic.min_distance", &p.Organic.MinDistance)
		setInt(v, prefix+"organic.min_points", &p.Organic.MinPoints)
		setInt(v, prefix+"organic.max_points", &p.Organic.MaxPoints)

		setDuration(v, prefix+"drag.lookback", &p.Drag.Lookback)
		setDuration(v, prefix+"drag.touch_lookback", &p.Drag.TouchLookback)
		setFloat(v, prefix+"drag.decay", &p.Drag.DecayFactor)
		setFloat(v, prefix+"drag.touch_decay", &p.Drag.TouchDecayFactor)
		setFloat(v, prefix+"drag.min_release_velocity", &p.Drag.MinReleaseVelocity)
		setFloat(v, prefix+"drag.stop_velocity", &p.Drag.StopVelocity)

		if p.BufferSectors < 0 {
			return nil, fmt.Errorf("config: %sbuffer_sectors must not be negative", prefix)
		}
		if p.Organic.SectorSize <= 0 || p.Organic.MinDistance < 0 {
			return nil, fmt.Errorf("config: %sorganic spacing must be positive", prefix)
		}
		if p.Organic.MinPoints < 1 || p.Organic.MaxPoints < p.Organic.MinPoints {
			return nil, fmt.Errorf("config: %sorganic points %d..%d invalid", prefix, p.Organic.MinPoints, p.Organic.MaxPoints)
		}
		if p.Drag.DecayFactor <= 0 || p.Drag.DecayFactor >= 1 ||
			p.Drag.TouchDecayFactor <= 0 || p.Drag.TouchDecayFactor >= 1 {
			return nil, fmt.Errorf("config: %sdrag decay must be in (0, 1)", prefix)
		}
		table[class] = p
	}
	return table, nil
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func setFloat(v *viper.Viper, key string, dst *float64) {
	if v.IsSet(key) {
		*dst = v.GetFloat64(key)
	}
}

func setDuration(v *viper.Viper, key string, dst *time.Duration) {
	if v.IsSet(key) {
		*dst = v.GetDuration(key)
	}
}

// GalleryConfig builds the core configuration for roster.
func (c *Config) GalleryConfig(roster []drift.ImageID) drift.GalleryConfig {
	return drift.GalleryConfig{
		Profiles:          c.Profiles,
		Mode:              c.Mode,
		Roster:            roster,
		AmbientSpeed:      c.AmbientSpeed,
		ClickDeadZone:     c.ClickDeadZone,
		DisableAnimations: c.DisableAnimations,
	}
}

// demoAlbums is the size of the generated catalog used when no catalog file
// is configured.
const demoAlbums = 48

// Catalog loads the album catalog named by Covers.Catalog. Without one it
// generates numbered albums whose covers are /covers/NNN.jpg.
func (c *Config) Catalog() (*drift.Catalog, error) {
	if c.Covers.Catalog == "" {
		albums := make([]drift.Album, demoAlbums)
		for i := range albums {
			albums[i] = drift.Album{
				ID:       fmt.Sprint(i + 1),
				Title:    fmt.Sprintf("#%d", i+1),
				Artist:   "RFD",
				ImageURL: drift.ImageID(fmt.Sprintf("/covers/%03d.jpg", i+1)),
			}
		}
		return drift.NewCatalog(albums), nil
	}
	data, err := os.ReadFile(c.Covers.Catalog)
	if err != nil {
		return nil, fmt.Errorf("config: catalog: %w", err)
	}
	return drift.LoadCatalog(data)
}
