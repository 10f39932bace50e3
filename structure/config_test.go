package structure

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nasoulic/3D-frame-FEA/element"
)

func TestParseConfig(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("up: [0, 1, 0]\nfallback: [1, 0, 0]\nmax_pivot_ratio: 1.0e+8\n"))
		require.NoError(t, err)
		assert.Equal(t, r3.Vec{Y: 1}, cfg.Orientation.Up)
		assert.Equal(t, r3.Vec{X: 1}, cfg.Orientation.Fallback)
		assert.Equal(t, 1e8, cfg.MaxPivotRatio)
		assert.NotNil(t, cfg.Logger)
	})

	t.Run("PartialKeepsDefaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("up: [0, 0, 5]\n"))
		require.NoError(t, err)
		assert.Equal(t, r3.Vec{Z: 1}, cfg.Orientation.Up)
		assert.Equal(t, DefaultConfig().Orientation.Fallback, cfg.Orientation.Fallback)
		assert.Equal(t, DefaultMaxPivotRatio, cfg.MaxPivotRatio)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, doc := range []string{
			"up: [1, 2]\n",
			"fallback: [0, 0, 0]\n",
			"max_pivot_ratio: 0.5\n",
		} {
			_, err := ParseConfig([]byte(doc))
			assert.ErrorIs(t, err, element.ErrInvalidInput, doc)
		}
		_, err := ParseConfig([]byte("up: sideways\n"))
		assert.Error(t, err)
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("up: [0, 1, 0]\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	s := New(cfg)
	n0, n1 := s.AddNode(0, 0, 0), s.AddNode(1000, 0, 0)
	b, err := s.AddBeam(n0, n1, square(t))
	require.NoError(t, err)
	// x × Y = Z, so local y coincides with global Y
	assert.InDelta(t, 0, r3.Norm(r3.Sub(b.Frame().Z, r3.Vec{Z: 1})), 1e-12)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(b.Frame().Y, r3.Vec{Y: 1})), 1e-12)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	s := New(Config{})
	cfg := s.Config()
	assert.Equal(t, DefaultMaxPivotRatio, cfg.MaxPivotRatio)
	assert.Equal(t, element.DefaultOrientation(), cfg.Orientation)
	assert.NotNil(t, cfg.Logger)
}

func TestYUpConfig(t *testing.T) {
	t.Run("FallbackDerived", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("up: [0, 1, 0]\n"))
		require.NoError(t, err)
		assert.Equal(t, r3.Vec{Y: 1}, cfg.Orientation.Up)
		assert.Equal(t, r3.Vec{X: 1}, cfg.Orientation.Fallback)
		assert.True(t, cfg.Orientation.Independent())
	})

	t.Run("ParallelFallbackRejected", func(t *testing.T) {
		_, err := ParseConfig([]byte("up: [0, 1, 0]\nfallback: [0, -2, 0]\n"))
		assert.ErrorIs(t, err, element.ErrInvalidInput)
	})

	// beams along up must resolve through the fallback, from YAML or a literal Config
	for name, cfg := range map[string]func() (Config, error){
		"Parsed":  func() (Config, error) { return ParseConfig([]byte("up: [0, 1, 0]\n")) },
		"Literal": func() (Config, error) { return Config{Orientation: element.Orientation{Up: r3.Vec{Y: 1}}}, nil },
	} {
		t.Run("VerticalCantilever"+name, func(t *testing.T) {
			c, err := cfg()
			require.NoError(t, err)
			p := square(t)
			s := New(c)
			n0 := s.AddNode(0, 0, 0)
			n1 := s.AddNode(0, length, 0)
			b, err := s.AddBeam(n0, n1, p)
			require.NoError(t, err)
			assert.InDelta(t, 0, r3.Norm(r3.Sub(b.Frame().Z, r3.Vec{Z: -1})), 1e-12)
			assert.InDelta(t, 0, r3.Norm(r3.Sub(b.Frame().Y, r3.Vec{X: 1})), 1e-12)

			require.NoError(t, s.AddSupport(n0.ID(), fixedAll))
			require.NoError(t, s.AddLoad(n1.ID(), [6]float64{load, 0, 0, 0, 0, 0}))
			_, err = s.Solve()
			require.NoError(t, err)
			tip := nodeU(t, s, n1.ID())
			assert.InDelta(t, load*math.Pow(length, 3)/(3*youngs*p.Iz()), tip[0], 1e-6)
		})
	}
}
