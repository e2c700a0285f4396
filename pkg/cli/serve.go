package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"github.com/secmon-lab/cuon/pkg/cli/config"
	controller "github.com/secmon-lab/cuon/pkg/controller/http"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	slackSvc "github.com/secmon-lab/cuon/pkg/service/slack"
	"github.com/secmon-lab/cuon/pkg/service/urgency"
	"github.com/secmon-lab/cuon/pkg/usecase"
	"github.com/secmon-lab/cuon/pkg/utils/apperr"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		slackCfg   config.Slack
		historyCfg config.History
		ticketsCfg config.Tickets
		rulesCfg   config.Rules
		digestCfg  config.Digest
	)

	flags := joinFlags(
		serverCfg.Flags(),
		slackCfg.Flags(),
		historyCfg.Flags(),
		ticketsCfg.Flags(),
		rulesCfg.Flags(),
		digestCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting cuon server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("slack", slackCfg),
				slog.Any("history", historyCfg),
				slog.Any("tickets", ticketsCfg),
				slog.Any("rules", rulesCfg),
				slog.Any("digest", digestCfg),
			)

			repo, err := historyCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			rules, err := rulesCfg.Configure()
			if err != nil {
				return err
			}

			slackClient := slackCfg.Configure()
			if slackClient == nil {
				return goerr.New("Slack configuration is required. Please provide CUON_SLACK_OAUTH_TOKEN and CUON_SLACK_TRACKING_CHANNEL")
			}

			// Assemble the submission pipeline
			resolver := ticketsCfg.Configure()
			scorer := urgency.NewScorer(rules.Lexicon)
			validator := usecase.NewValidator(resolver, scorer, rules)
			history := usecase.NewHistory(repo, rules.RepeatWindowDays)
			policy := usecase.NewPolicy(rules.OversightRecipient, rules.RepeatWindowDays)
			users := slackSvc.NewUserResolver(slackClient, slackCfg.EmailDomain)
			trackingChannel := types.ChannelID(slackCfg.TrackingChannel)
			escalationUC := usecase.NewEscalation(validator, history, policy, slackClient, users, trackingChannel)

			server, err := controller.NewServer(ctx, serverCfg.Addr, escalationUC, history)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Optional periodic digest
			var scheduler *cron.Cron
			if digestCfg.IsEnabled() {
				digestUC := usecase.NewDigest(repo, slackClient, trackingChannel, digestCfg.WindowDays)
				scheduler = cron.New()
				_, err := scheduler.AddFunc(digestCfg.Schedule, func() {
					if err := digestUC.Post(ctx); err != nil {
						apperr.Handle(ctx, "failed to post escalation digest", err)
					}
				})
				if err != nil {
					return goerr.Wrap(err, "invalid digest schedule",
						goerr.V("schedule", digestCfg.Schedule))
				}
				scheduler.Start()
				defer scheduler.Stop()
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
