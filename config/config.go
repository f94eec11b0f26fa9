package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/maskcmd/mask"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "MASKCMD_"

const (
	DefaultFrameRate = 30
	DefaultLogDir    = "logs"
	DefaultTraceFile = "trace.json"
	maxFrameRate     = 240
)

// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// sourceNamespace seeds deterministic names for unnamed sources
var sourceNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("maskcmd/sources"))

// Config is the host configuration
type Config struct {
	FrameRate  int            `toml:"frame_rate" yaml:"frame_rate" env:"FRAME_RATE"`
	Debug      bool           `toml:"debug" yaml:"debug" env:"DEBUG"`
	LogDir     string         `toml:"log_dir" yaml:"log_dir" env:"LOG_DIR"`
	Trace      bool           `toml:"trace" yaml:"trace" env:"TRACE"`
	TraceFile  string         `toml:"trace_file" yaml:"trace_file" env:"TRACE_FILE"`
	DesignTime bool           `toml:"design_time" yaml:"design_time" env:"DESIGN_TIME"`
	Sources    []SourceConfig `toml:"sources" yaml:"sources"`
}

// SourceConfig describes one mask source in normalized viewport coordinates
type SourceConfig struct {
	Name      string  `toml:"name" yaml:"name"`
	Kind      string  `toml:"kind" yaml:"kind"`
	X         float32 `toml:"x" yaml:"x"`
	Y         float32 `toml:"y" yaml:"y"`
	W         float32 `toml:"w" yaml:"w"`
	H         float32 `toml:"h" yaml:"h"`
	Layer     string  `toml:"layer" yaml:"layer"`
	Thickness int     `toml:"thickness" yaml:"thickness"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		FrameRate: DefaultFrameRate,
		LogDir:    DefaultLogDir,
		TraceFile: DefaultTraceFile,
	}
}

// Load reads path (TOML or YAML by extension), applies MASKCMD_* environment
// overrides and validates. An empty path loads defaults plus environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// normalize fills defaults that depend on other fields
func (c *Config) normalize() {
	for i := range c.Sources {
		s := &c.Sources[i]
		s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
		if s.Layer == "" {
			s.Layer = "clip"
		}
		if s.Name == "" {
			s.Name = s.derivedName()
		}
	}
}

// derivedName is stable across reloads as long as the entry is unchanged
func (s SourceConfig) derivedName() string {
	key := fmt.Sprintf("%s|%g|%g|%g|%g|%s|%d", s.Kind, s.X, s.Y, s.W, s.H, s.Layer, s.Thickness)
	return uuid.NewSHA1(sourceNamespace, []byte(key)).String()
}

// Validate checks ranges and source uniqueness
func (c *Config) Validate() error {
	if c.FrameRate < 1 || c.FrameRate > maxFrameRate {
		return fmt.Errorf("frame_rate must be in [1, %d], got %d", maxFrameRate, c.FrameRate)
	}

	seen := make(map[string]struct{}, len(c.Sources))
	var errs []error
	for i, s := range c.Sources {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("sources[%d]: %w", i, err))
			continue
		}
		if _, dup := seen[s.Name]; dup {
			errs = append(errs, fmt.Errorf("sources[%d]: duplicate name %q", i, s.Name))
			continue
		}
		seen[s.Name] = struct{}{}
	}
	return errors.Join(errs...)
}

// Validate checks a single source entry
func (s SourceConfig) Validate() error {
	if s.Kind == "" {
		return errors.New("kind is required")
	}
	if _, err := mask.ParseLayer(s.Layer); err != nil {
		return err
	}
	if s.X < 0 || s.Y < 0 || s.X > 1 || s.Y > 1 {
		return fmt.Errorf("origin (%g, %g) outside [0, 1]", s.X, s.Y)
	}
	if s.W <= 0 || s.H <= 0 || s.X+s.W > 1 || s.Y+s.H > 1 {
		return fmt.Errorf("size (%g, %g) must be positive and fit the viewport", s.W, s.H)
	}
	if s.Thickness < 0 {
		return fmt.Errorf("thickness must not be negative, got %d", s.Thickness)
	}
	return nil
}

// FrameInterval converts the frame rate to a tick interval
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
