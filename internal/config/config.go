package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines configuration for the aisfetch CLI.
type Config struct {
	Project       string        `yaml:"project"`
	DataDir       string        `yaml:"data_dir"`
	RawDir        string        `yaml:"raw_dir"`
	URLs          []string      `yaml:"urls"`
	ArchiveSuffix string        `yaml:"archive_suffix"`
	MaxClimb      int           `yaml:"max_climb"`
	Timeout       time.Duration `yaml:"timeout"`
	Progress      bool          `yaml:"progress"`
}

// Default returns a Config with sensible defaults: the NOAA AIS day
// archives the Vessel Vision dashboard consumes, staged under data/raw
// below a project root named vessel-vision-test.
func Default() Config {
	return Config{
		Project: "vessel-vision-test",
		DataDir: "data",
		RawDir:  "raw",
		URLs: []string{
			"https://coast.noaa.gov/htdata/CMSP/AISDataHandler/2024/AIS_2024_01_01.zip",
			"https://coast.noaa.gov/htdata/CMSP/AISDataHandler/2024/AIS_2024_01_02.zip",
		},
		ArchiveSuffix: ".zip",
		MaxClimb:      1,
		Timeout:       15 * time.Minute,
		Progress:      true,
	}
}

// yamlConfig is used for YAML unmarshaling with string durations and an
// explicit progress field (so `progress: false` is distinguishable from
// the field being absent).
type yamlConfig struct {
	Project       string   `yaml:"project"`
	DataDir       string   `yaml:"data_dir"`
	RawDir        string   `yaml:"raw_dir"`
	URLs          []string `yaml:"urls"`
	ArchiveSuffix string   `yaml:"archive_suffix"`
	MaxClimb      *int     `yaml:"max_climb"`
	Timeout       string   `yaml:"timeout"`
	Progress      *bool    `yaml:"progress"`
}

// LoadFromFile loads configuration from a YAML file, layered over the
// defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Project != "" {
		cfg.Project = yc.Project
	}
	if yc.DataDir != "" {
		cfg.DataDir = yc.DataDir
	}
	if yc.RawDir != "" {
		cfg.RawDir = yc.RawDir
	}
	if len(yc.URLs) > 0 {
		cfg.URLs = yc.URLs
	}
	if yc.ArchiveSuffix != "" {
		cfg.ArchiveSuffix = yc.ArchiveSuffix
	}
	if yc.MaxClimb != nil {
		cfg.MaxClimb = *yc.MaxClimb
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.Progress != nil {
		cfg.Progress = *yc.Progress
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the AISFETCH_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("AISFETCH_PROJECT"); v != "" {
		c.Project = v
	}
	if v := os.Getenv("AISFETCH_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("AISFETCH_RAW_DIR"); v != "" {
		c.RawDir = v
	}
	if v := os.Getenv("AISFETCH_URLS"); v != "" {
		var urls []string
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		c.URLs = urls
	}
	if v := os.Getenv("AISFETCH_ARCHIVE_SUFFIX"); v != "" {
		c.ArchiveSuffix = v
	}
	if v := os.Getenv("AISFETCH_MAX_CLIMB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse AISFETCH_MAX_CLIMB: %w", err)
		}
		c.MaxClimb = n
	}
	if v := os.Getenv("AISFETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse AISFETCH_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("AISFETCH_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	return nil
}

// Validate validates the configuration. Beyond the usual non-empty
// checks, it rejects URL lists whose derived local file names collide:
// two archives landing on the same name would silently overwrite each
// other in the staging directory.
func (c *Config) Validate() error {
	if c.Project == "" {
		return errors.New("config: project is required")
	}
	if c.DataDir == "" {
		return errors.New("config: data_dir is required")
	}
	if c.RawDir == "" {
		return errors.New("config: raw_dir is required")
	}
	if len(c.URLs) == 0 {
		return errors.New("config: at least one archive URL is required")
	}
	if c.ArchiveSuffix == "" {
		return errors.New("config: archive_suffix is required")
	}
	if c.MaxClimb < 0 {
		return errors.New("config: max_climb must not be negative")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}

	seen := make(map[string]string, len(c.URLs))
	for _, raw := range c.URLs {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("config: invalid URL %q: %w", raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("config: URL %q must be absolute http(s)", raw)
		}
		name := path.Base(u.Path)
		if name == "." || name == "/" || name == "" {
			return fmt.Errorf("config: URL %q has no file name in its path", raw)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("config: URLs %q and %q derive the same local file name %q", prev, raw, name)
		}
		seen[name] = raw
	}

	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Project != "" {
		c.Project = override.Project
	}
	if override.DataDir != "" {
		c.DataDir = override.DataDir
	}
	if override.RawDir != "" {
		c.RawDir = override.RawDir
	}
	if len(override.URLs) > 0 {
		c.URLs = override.URLs
	}
	if override.ArchiveSuffix != "" {
		c.ArchiveSuffix = override.ArchiveSuffix
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	return c
}
