package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cuon/pkg/cli/config"
	"github.com/secmon-lab/cuon/pkg/domain/model"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRulesConfigure(t *testing.T) {
	t.Run("no path uses the shipped defaults", func(t *testing.T) {
		r := &config.Rules{}
		cfg, err := r.Configure()
		gt.NoError(t, err)
		gt.Equal(t, model.DefaultRulesConfig(), cfg)
	})

	t.Run("partial file only overrides what it names", func(t *testing.T) {
		path := writeRulesFile(t, `
rules:
  missing_ticket: true
  ticket_mismatch: true
repeat_window_days: 14
oversight_recipient: oversight-lead
`)
		r := &config.Rules{Path: path}
		cfg, err := r.Configure()
		gt.NoError(t, err)

		gt.True(t, cfg.Rules.MissingTicket)
		gt.True(t, cfg.Rules.TicketMismatch)
		gt.False(t, cfg.Rules.TextHeuristic)
		gt.False(t, cfg.Rules.NeedByDistance)
		gt.Equal(t, 14, cfg.RepeatWindowDays)
		gt.Equal(t, "oversight-lead", cfg.OversightRecipient)

		// The default lexicon backfills an absent one
		gt.Equal(t, model.DefaultRulesConfig().Lexicon, cfg.Lexicon)
	})

	t.Run("custom lexicon survives", func(t *testing.T) {
		path := writeRulesFile(t, `
rules:
  text_heuristic: true
lexicon:
  urgent: ["fire", "down"]
  non_urgent: ["someday"]
`)
		r := &config.Rules{Path: path}
		cfg, err := r.Configure()
		gt.NoError(t, err)
		gt.Equal(t, []string{"fire", "down"}, cfg.Lexicon.Urgent)
		gt.Equal(t, []string{"someday"}, cfg.Lexicon.NonUrgent)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		r := &config.Rules{Path: filepath.Join(t.TempDir(), "absent.yml")}
		_, err := r.Configure()
		gt.Error(t, err)
	})

	t.Run("invalid YAML is an error", func(t *testing.T) {
		path := writeRulesFile(t, "rules: [not a map")
		r := &config.Rules{Path: path}
		_, err := r.Configure()
		gt.Error(t, err)
	})

	t.Run("invalid configuration is rejected", func(t *testing.T) {
		path := writeRulesFile(t, "repeat_window_days: -5")
		r := &config.Rules{Path: path}
		_, err := r.Configure()
		gt.Error(t, err)
	})
}
