package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Digest holds the periodic summary configuration. An empty schedule
// disables the digest entirely.
type Digest struct {
	Schedule   string
	WindowDays int
}

// Flags returns CLI flags for Digest configuration
func (d *Digest) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "digest-schedule",
			Usage:       "Cron schedule for the escalation digest (empty disables it)",
			Category:    "Digest",
			Sources:     cli.EnvVars("CUON_DIGEST_SCHEDULE"),
			Destination: &d.Schedule,
		},
		&cli.IntFlag{
			Name:        "digest-window-days",
			Usage:       "Trailing window summarized by each digest",
			Category:    "Digest",
			Value:       7,
			Sources:     cli.EnvVars("CUON_DIGEST_WINDOW_DAYS"),
			Destination: &d.WindowDays,
		},
	}
}

// IsEnabled checks if the digest is configured
func (d *Digest) IsEnabled() bool {
	return d.Schedule != ""
}

// LogValue returns structured log value
func (d Digest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("schedule", d.Schedule),
		slog.Int("window_days", d.WindowDays),
	)
}
