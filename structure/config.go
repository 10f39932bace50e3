package structure

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/nasoulic/3D-frame-FEA/element"
)

const (
	// DefaultMaxPivotRatio bounds K_ii / pivot_i during factorisation. Larger
	// ratios mean the DOF lost almost all of its stiffness to roundoff, which is
	// how an unrestrained mechanism shows up in floating point.
	DefaultMaxPivotRatio = 1e10
)

// Config holds solver options. Zero fields take defaults in New.
type Config struct {
	Orientation   element.Orientation // reference vectors for beam local axes
	MaxPivotRatio float64             // singularity threshold
	Logger        *slog.Logger
}

// DefaultConfig returns the configuration used by NewDefault.
func DefaultConfig() Config {
	return Config{
		Orientation:   element.DefaultOrientation(),
		MaxPivotRatio: DefaultMaxPivotRatio,
		Logger:        slog.New(slog.DiscardHandler),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	c.Orientation = c.Orientation.Resolved()
	if c.MaxPivotRatio <= 0 {
		c.MaxPivotRatio = def.MaxPivotRatio
	}
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	return c
}

// fileConfig is the YAML form of Config.
type fileConfig struct {
	Up            []float64 `yaml:"up"`
	Fallback      []float64 `yaml:"fallback"`
	MaxPivotRatio float64   `yaml:"max_pivot_ratio"`
}

// ParseConfig reads a YAML document such as
//
//	up: [0, 0, 1]
//	fallback: [0, 1, 0]
//	max_pivot_ratio: 1.0e+10
//
// Missing keys keep their defaults. Without a fallback key the fallback is +Y,
// or +X when up lies along Y.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse solver config: %w", err)
	}
	if fc.Up != nil {
		v, err := toVec("up", fc.Up)
		if err != nil {
			return cfg, err
		}
		cfg.Orientation.Up = v
	}
	if fc.Fallback != nil {
		v, err := toVec("fallback", fc.Fallback)
		if err != nil {
			return cfg, err
		}
		cfg.Orientation.Fallback = v
		if !cfg.Orientation.Independent() {
			return cfg, fmt.Errorf("%w: fallback must not be parallel to up", element.ErrInvalidInput)
		}
	} else {
		cfg.Orientation.Fallback = r3.Vec{}
	}
	cfg.Orientation = cfg.Orientation.Resolved()
	if fc.MaxPivotRatio != 0 {
		if fc.MaxPivotRatio < 1 || math.IsInf(fc.MaxPivotRatio, 0) {
			return cfg, fmt.Errorf("%w: max_pivot_ratio must be a finite value >= 1, got %g",
				element.ErrInvalidInput, fc.MaxPivotRatio)
		}
		cfg.MaxPivotRatio = fc.MaxPivotRatio
	}
	return cfg, nil
}

// LoadConfig reads a YAML solver configuration from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), err
	}
	return ParseConfig(data)
}

func toVec(key string, v []float64) (r3.Vec, error) {
	if len(v) != 3 {
		return r3.Vec{}, fmt.Errorf("%w: %s needs 3 components, got %d", element.ErrInvalidInput, key, len(v))
	}
	vec := r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	if r3.Norm(vec) == 0 {
		return r3.Vec{}, fmt.Errorf("%w: %s must not be the zero vector", element.ErrInvalidInput, key)
	}
	return r3.Unit(vec), nil
}
