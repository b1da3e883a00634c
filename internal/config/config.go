package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"appicon/internal/catalog"
	"appicon/internal/encode"
	apperrors "appicon/internal/errors"
	"appicon/internal/logging"
	"appicon/internal/pipeline"
	"appicon/internal/source"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "APPICON_"

// Config represents the application configuration
type Config struct {
	Log      logging.Config `yaml:"log"`
	Defaults Defaults       `yaml:"defaults"`
	Custom   []CustomSize   `yaml:"custom_sizes"`
	Upload   source.Limits  `yaml:"upload"`
	Batch    BatchConfig    `yaml:"batch"`
	Output   OutputConfig   `yaml:"output"`
}

// Defaults seed the generation flags.
type Defaults struct {
	Padding    float64  `yaml:"padding"`
	Background string   `yaml:"background"`
	Platforms  []string `yaml:"platforms"`
	Format     string   `yaml:"format"`
	Quality    int      `yaml:"quality"`
}

type CustomSize struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
	Zip bool   `yaml:"zip"`
}

func Default() *Config {
	return &Config{
		Log: logging.Config{Level: "info", Format: "text"},
		Defaults: Defaults{
			Background: pipeline.DefaultBackground,
			Platforms:  []string{string(catalog.PlatformIOS)},
			Format:     string(encode.FormatPNG),
			Quality:    encode.DefaultQuality,
		},
		Upload: source.DefaultLimits(),
		Batch:  BatchConfig{Workers: pipeline.DefaultExportWorkers},
		Output: OutputConfig{Dir: "icons", Zip: true},
	}
}

// Loader merges defaults, an optional YAML file, an optional .env file and
// APPICON_* variables, in that order.
type Loader struct {
	useDotEnv  bool
	dotEnvPath []string
	lookup     func(string) (string, bool)
}

func NewLoader() *Loader {
	return &Loader{useDotEnv: true, lookup: os.LookupEnv}
}

// WithDotEnv toggles loading a .env file before reading the environment.
func (l *Loader) WithDotEnv(enabled bool, paths ...string) *Loader {
	l.useDotEnv = enabled
	l.dotEnvPath = paths
	return l
}

// WithLookup replaces os.LookupEnv.
func (l *Loader) WithLookup(fn func(string) (string, bool)) *Loader {
	if fn != nil {
		l.lookup = fn
	}
	return l
}

// Load reads the YAML file at path, if any, and applies overrides.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindConfig, "config.load", "read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrap(apperrors.KindConfig, "config.load", "parse config", err)
		}
	}

	if l.useDotEnv {
		// A missing .env file is normal.
		_ = godotenv.Load(l.dotEnvPath...)
	}
	if err := cfg.applyEnv(l.lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is NewLoader().Load(path).
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	bad := func(key string, err error) error {
		return apperrors.Wrap(apperrors.KindConfig, "config.env", EnvPrefix+key, err)
	}

	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := get("PADDING"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return bad("PADDING", err)
		}
		c.Defaults.Padding = f
	}
	if v, ok := get("BACKGROUND"); ok {
		c.Defaults.Background = v
	}
	if v, ok := get("PLATFORMS"); ok {
		c.Defaults.Platforms = splitList(v)
	}
	if v, ok := get("FORMAT"); ok {
		c.Defaults.Format = v
	}
	if v, ok := get("QUALITY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return bad("QUALITY", err)
		}
		c.Defaults.Quality = n
	}
	if v, ok := get("MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return bad("MAX_UPLOAD_BYTES", err)
		}
		c.Upload.MaxBytes = n
	}
	if v, ok := get("MIN_DIMENSION"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return bad("MIN_DIMENSION", err)
		}
		c.Upload.MinDimension = n
	}
	if v, ok := get("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return bad("WORKERS", err)
		}
		c.Batch.Workers = n
	}
	if v, ok := get("OUTPUT_DIR"); ok {
		c.Output.Dir = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks every section
func (c *Config) Validate() error {
	fail := func(format string, args ...any) error {
		return apperrors.Newf(apperrors.KindConfig, "config.validate", format, args...)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fail("log.level: %v", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fail("log.format must be text or json, got %q", c.Log.Format)
	}
	if _, err := c.Platforms(); err != nil {
		return fail("defaults.platforms: %v", err)
	}
	if err := c.PipelineOptions("").Validate(); err != nil {
		return fail("defaults: %v", err)
	}
	for i, cs := range c.Custom {
		if cs.Width <= 0 || cs.Height <= 0 {
			return fail("custom_sizes[%d]: width and height must be positive", i)
		}
	}
	if c.Upload.MaxBytes < 0 || c.Upload.MinDimension < 0 {
		return fail("upload limits must not be negative")
	}
	if c.Batch.Workers < 0 {
		return fail("batch.workers must not be negative")
	}
	return nil
}

// Platforms parses the default platform list.
func (c *Config) Platforms() ([]catalog.Platform, error) {
	out := make([]catalog.Platform, 0, len(c.Defaults.Platforms))
	for _, name := range c.Defaults.Platforms {
		p, err := catalog.ParsePlatform(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// CustomSizes converts configured custom sizes, clamped into range.
func (c *Config) CustomSizes() []catalog.TargetSize {
	out := make([]catalog.TargetSize, 0, len(c.Custom))
	for _, cs := range c.Custom {
		out = append(out, catalog.NewCustomSize(cs.Width, cs.Height, cs.Name))
	}
	return out
}

// PipelineOptions builds batch options from the defaults.
func (c *Config) PipelineOptions(platform catalog.Platform) pipeline.Options {
	format, err := encode.ParseFormat(c.Defaults.Format)
	if err != nil {
		// Left as given so Validate reports it.
		format = encode.Format(c.Defaults.Format)
	}
	return pipeline.Options{
		Padding:         c.Defaults.Padding,
		BackgroundColor: c.Defaults.Background,
		Platform:        platform,
		Format:          format,
		Quality:         c.Defaults.Quality,
	}
}
