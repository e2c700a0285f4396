package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/repository"
	"github.com/urfave/cli/v3"
)

// History selects the escalation log backend. Precedence: Firestore,
// SQLite, CSV artifact, then in-memory (data lost on shutdown).
type History struct {
	FirestoreProject  string
	FirestoreDatabase string
	SQLitePath        string
	CSVPath           string
}

// Flags returns CLI flags for History configuration
func (h *History) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for the Firestore history backend",
			Category:    "History",
			Sources:     cli.EnvVars("CUON_FIRESTORE_PROJECT"),
			Destination: &h.FirestoreProject,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "History",
			Value:       "(default)",
			Sources:     cli.EnvVars("CUON_FIRESTORE_DATABASE"),
			Destination: &h.FirestoreDatabase,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "Path of the SQLite history database",
			Category:    "History",
			Sources:     cli.EnvVars("CUON_SQLITE_PATH"),
			Destination: &h.SQLitePath,
		},
		&cli.StringFlag{
			Name:        "csv-path",
			Usage:       "Path of the append-only CSV escalation log",
			Category:    "History",
			Sources:     cli.EnvVars("CUON_CSV_PATH"),
			Destination: &h.CSVPath,
		},
	}
}

// Configure creates the history repository for the selected backend
func (h *History) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	switch {
	case h.FirestoreProject != "":
		repo, err := repository.NewFirestore(ctx, h.FirestoreProject, h.FirestoreDatabase)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init firestore history",
				goerr.V("project", h.FirestoreProject),
				goerr.V("database", h.FirestoreDatabase),
			)
		}
		return repo, nil

	case h.SQLitePath != "":
		repo, err := repository.NewSQLite(h.SQLitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init sqlite history",
				goerr.V("path", h.SQLitePath))
		}
		logger.Info("Using SQLite history backend", "path", h.SQLitePath)
		return repo, nil

	case h.CSVPath != "":
		repo, err := repository.NewCSVFile(h.CSVPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init CSV history",
				goerr.V("path", h.CSVPath))
		}
		logger.Info("Using CSV history backend", "path", h.CSVPath)
		return repo, nil

	default:
		logger.Warn("Using in-memory history. Repeat-offense counts will be lost on shutdown")
		return repository.NewMemory(), nil
	}
}

// LogValue returns structured log value
func (h History) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("firestore_project", h.FirestoreProject),
		slog.String("sqlite_path", h.SQLitePath),
		slog.String("csv_path", h.CSVPath),
	)
}
