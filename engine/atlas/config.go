package atlas

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko"
)

// Config holds the parameters of an atlas build.
type Config struct {
	Width      int     // width of the atlas image in pixels
	SDFWidth   float64 // distance in pixels at which the field saturates
	Oversample float64 // pixels per shape unit
	Density    float64 // baseline density for subsampling curves
	Workers    int     // maximum number of parallel rasterization workers
}

// DefaultConfig returns a configuration suitable for glyphs scaled to
// 32 to 64 pixels per em.
func DefaultConfig() Config {
	return Config{
		Width:      1024,
		SDFWidth:   4,
		Oversample: 1,
		Density:    8,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

func (c Config) String() string {
	return fmt.Sprintf("atlas[width=%d, sdf=%g, oversample=%g, density=%g, workers=%d]",
		c.Width, c.SDFWidth, c.Oversample, c.Density, c.Workers)
}

// Validate checks a configuration. Every parameter has to be positive.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return core.Error(core.EINVALID, "atlas width must be positive, is %d", c.Width)
	case c.SDFWidth <= 0:
		return core.Error(core.EINVALID, "atlas SDF width must be positive, is %g", c.SDFWidth)
	case c.Oversample <= 0:
		return core.Error(core.EINVALID, "atlas oversampling must be positive, is %g", c.Oversample)
	case c.Density <= 0:
		return core.Error(core.EINVALID, "atlas subsampling density must be positive, is %g", c.Density)
	case c.Workers <= 0:
		return core.Error(core.EINVALID, "atlas worker count must be positive, is %d", c.Workers)
	}
	return nil
}

// Configuration keys read by ConfigFromSettings.
const (
	KeyWidth      = "atlas.width"
	KeySDFWidth   = "atlas.sdf-width"
	KeyOversample = "atlas.oversample"
	KeyDensity    = "atlas.density"
	KeyWorkers    = "atlas.workers"
)

// ConfigFromSettings reads an atlas configuration from application settings.
// Keys not set keep their default value (see DefaultConfig). The resulting
// configuration is validated.
func ConfigFromSettings(conf schuko.Configuration) (Config, error) {
	c := DefaultConfig()
	if conf == nil {
		return c, nil
	}
	if conf.IsSet(KeyWidth) {
		c.Width = conf.GetInt(KeyWidth)
	}
	if conf.IsSet(KeyWorkers) {
		c.Workers = conf.GetInt(KeyWorkers)
	}
	for key, f := range map[string]*float64{
		KeySDFWidth:   &c.SDFWidth,
		KeyOversample: &c.Oversample,
		KeyDensity:    &c.Density,
	} {
		if !conf.IsSet(key) {
			continue
		}
		v, err := strconv.ParseFloat(conf.GetString(key), 64)
		if err != nil {
			return c, core.WrapError(err, core.EINVALID, "configuration %s", key)
		}
		*f = v
	}
	tracer().Debugf("configured %v", c)
	return c, c.Validate()
}
