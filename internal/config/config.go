// Package config decodes the planner's external configuration table
// from a generic map, the shape a config service or CLI layer would
// deliver, into a typed Config.
package config

import (
	"github.com/go-viper/mapstructure/v2"
)

// Config holds the planner's tunable geometry/sampling parameters
// plus its dispersion radius and logging knobs.
type Config struct {
	MapSize          float64 `mapstructure:"map_size"`
	Resolution       float64 `mapstructure:"resolution"`
	RobotDiameter    float64 `mapstructure:"robot_diameter"`
	Density          int     `mapstructure:"density"`
	MaxEdgeLen       float64 `mapstructure:"max_edge_len"`
	MaxSamples       int     `mapstructure:"max_samples"`
	MaxRetries       int     `mapstructure:"max_retries"`
	DispersionRadius float64 `mapstructure:"dispersion_radius"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// Default returns the planner's documented defaults, including a
// dispersion radius of 2 * resolution.
func Default() Config {
	resolution := 0.1
	return Config{
		MapSize:          20.0,
		Resolution:       resolution,
		RobotDiameter:    0.2,
		Density:          5,
		MaxEdgeLen:       2.5,
		MaxSamples:       1000,
		MaxRetries:       3,
		DispersionRadius: 2 * resolution,
		LogLevel:         "info",
	}
}

// FromMap decodes a generic attribute map (as delivered by a config
// service or by cmd/plannerd's CLI flag layer) over the defaults.
// Unrecognised keys are ignored; recognised keys overwrite their
// corresponding default field.
func FromMap(raw map[string]any) (Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
