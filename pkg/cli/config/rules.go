package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Rules points at the validation rules YAML file
type Rules struct {
	Path string
}

// Flags returns CLI flags for Rules configuration
func (r *Rules) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "rules-config",
			Usage:       "Path of the validation rules YAML file (defaults apply when unset)",
			Category:    "Validation",
			Sources:     cli.EnvVars("CUON_RULES_CONFIG"),
			Destination: &r.Path,
		},
	}
}

// Configure loads the rules configuration, falling back to the shipped
// defaults when no file is given
func (r *Rules) Configure() (*model.RulesConfig, error) {
	if r.Path == "" {
		return model.DefaultRulesConfig(), nil
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "rules configuration file not found",
				goerr.V("path", r.Path))
		}
		return nil, goerr.Wrap(err, "failed to read rules configuration",
			goerr.V("path", r.Path))
	}

	var cfg model.RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse rules YAML",
			goerr.V("path", r.Path))
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid rules configuration",
			goerr.V("path", r.Path))
	}

	return &cfg, nil
}

// LogValue returns structured log value
func (r Rules) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", r.Path),
	)
}
