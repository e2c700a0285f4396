package config

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/service/ticket"
	"github.com/urfave/cli/v3"
)

// Tickets holds the severity source configuration. Sources are queried in
// fixed priority order: SIM first, then Remedy.
type Tickets struct {
	SIMBaseURL    string
	SIMToken      string
	RemedyBaseURL string
	RemedyToken   string
	LookupTimeout time.Duration
}

// Flags returns CLI flags for Tickets configuration
func (t *Tickets) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sim-base-url",
			Usage:       "Base URL of the SIM issue tracker API",
			Category:    "Tickets",
			Sources:     cli.EnvVars("CUON_SIM_BASE_URL"),
			Destination: &t.SIMBaseURL,
		},
		&cli.StringFlag{
			Name:        "sim-token",
			Usage:       "API token for SIM",
			Category:    "Tickets",
			Sources:     cli.EnvVars("CUON_SIM_TOKEN"),
			Destination: &t.SIMToken,
		},
		&cli.StringFlag{
			Name:        "remedy-base-url",
			Usage:       "Base URL of the Remedy ticket desk API",
			Category:    "Tickets",
			Sources:     cli.EnvVars("CUON_REMEDY_BASE_URL"),
			Destination: &t.RemedyBaseURL,
		},
		&cli.StringFlag{
			Name:        "remedy-token",
			Usage:       "API token for Remedy",
			Category:    "Tickets",
			Sources:     cli.EnvVars("CUON_REMEDY_TOKEN"),
			Destination: &t.RemedyToken,
		},
		&cli.DurationFlag{
			Name:        "ticket-lookup-timeout",
			Usage:       "Per-source timeout for one severity lookup",
			Category:    "Tickets",
			Value:       ticket.DefaultLookupTimeout,
			Sources:     cli.EnvVars("CUON_TICKET_LOOKUP_TIMEOUT"),
			Destination: &t.LookupTimeout,
		},
	}
}

// Configure builds the resolver over every configured source. With no
// sources configured every lookup reports found=false, which keeps the
// validator usable in development.
func (t *Tickets) Configure() *ticket.Resolver {
	client := &http.Client{Timeout: t.LookupTimeout}

	var sources []interfaces.SeveritySource
	if t.SIMBaseURL != "" {
		sources = append(sources, ticket.NewSIM(t.SIMBaseURL, t.SIMToken, client))
	}
	if t.RemedyBaseURL != "" {
		sources = append(sources, ticket.NewRemedy(t.RemedyBaseURL, t.RemedyToken, client))
	}

	return ticket.NewResolver(t.LookupTimeout, sources...)
}

// LogValue returns structured log value
func (t Tickets) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("sim_base_url", t.SIMBaseURL),
		slog.Bool("has_sim_token", t.SIMToken != ""),
		slog.String("remedy_base_url", t.RemedyBaseURL),
		slog.Bool("has_remedy_token", t.RemedyToken != ""),
		slog.Duration("lookup_timeout", t.LookupTimeout),
	)
}
