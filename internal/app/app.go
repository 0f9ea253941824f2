package app

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/suxatcode/skill-galaxy/layout"
)

type Config struct {
	Production bool `env:"PRODUCTION" envDefault:"false"`
	// Levels are {trace, debug, info, warn, error, fatal, panic}.
	// See github.com/rs/zerolog@v1.19.0/log.go for possible values.
	LogLevel string `env:"LOGLEVEL" envDefault:"info"`
	// viewport of the rendered galaxy
	Width  float64 `env:"GALAXY_WIDTH" envDefault:"1200"`
	Height float64 `env:"GALAXY_HEIGHT" envDefault:"800"`
	// Frames to render, 0 renders until the layout settled.
	Frames int `env:"GALAXY_FRAMES" envDefault:"0"`
	// Format is one of svg, png or json.
	Format string `env:"GALAXY_FORMAT" envDefault:"svg"`
	// Physics is an optional TOML file overriding simulation constants.
	Physics string `env:"GALAXY_PHYSICS"`
}

func GetEnvConfig() Config {
	conf := Config{}
	if err := env.Parse(&conf); err != nil {
		log.Warn().Msgf("failed to parse environment: %v", err)
	}
	return conf
}

// SetupLogging configures the global logger, human readable on stderr unless
// running in production.
func SetupLogging(conf Config) {
	SetupLoggingTo(conf, os.Stderr)
}

func SetupLoggingTo(conf Config, out io.Writer) {
	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		println("failed to parse LogLevel: '" + conf.LogLevel + "', setting to debug")
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	if conf.Production {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
	}
}

// LoadPhysics reads simulation constants from a TOML file. Keys missing from
// the file keep their defaults. Unknown keys and explicit zeros for constants
// that default when zero are an error.
func LoadPhysics(path string) (layout.ForceSimulationConfig, error) {
	conf := layout.DefaultForceSimulationConfig
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return layout.ForceSimulationConfig{}, errors.Wrapf(err, "failed to read physics file '%s'", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return layout.ForceSimulationConfig{}, errors.Errorf("unknown keys in physics file '%s': %s", path, strings.Join(keys, ", "))
	}
	// zero means default to ApplyConfig, so an explicit zero would be ignored
	for _, field := range []struct {
		key   string
		value float64
	}{
		{"center_strength", conf.CenterStrength},
		{"repulsion_strength", conf.RepulsionStrength},
		{"attraction_strength", conf.AttractionStrength},
		{"frame_time", conf.FrameTime},
		{"velocity_decay", conf.VelocityDecay},
		{"alpha_init", conf.AlphaInit},
		{"alpha_decay", conf.AlphaDecay},
		{"alpha_min", conf.AlphaMin},
		{"initial_spread", conf.InitialSpread},
		{"min_node_size", conf.MinNodeSize},
		{"max_node_size", conf.MaxNodeSize},
		{"size_per_project", conf.SizePerProject},
		{"theta", conf.Theta},
	} {
		if md.IsDefined(field.key) && field.value == 0 {
			return layout.ForceSimulationConfig{}, errors.Errorf("'%s' in physics file '%s' must not be 0, leave it out to use the default", field.key, path)
		}
	}
	log.Debug().Str("component", "app").Msgf("physics loaded from '%s': %+v", path, conf)
	return conf, nil
}
