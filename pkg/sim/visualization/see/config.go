package see

import "flag"

// Config represents configuration for see.
type Config struct {
	Enabled bool
	W       float64
	H       float64
}

var defaultConfig = Config{
	W: 300,
	H: 300,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&defaultConfig.Enabled, "see", defaultConfig.Enabled, "Print visualization messages to stdout")
	flag.Float64Var(&defaultConfig.W, "see-w", defaultConfig.W, "Width (cm) of visualization area")
	flag.Float64Var(&defaultConfig.H, "see-h", defaultConfig.H, "Height (cm) of visualization area")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewAdapter creates adapter from config.
func (c *Config) NewAdapter(scene Scene) *Adapter {
	return NewAdapter(c, scene)
}
