// @title           Wedding Guest API
// @version         1.0
// @description     Приглашения, RSVP и переписка с гостями свадьбы.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"wedding_backend/internal/app"
	"wedding_backend/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "wedding",
		Short:         "Wedding guest communication backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return a.Serve(ctx)
			})
		},
	}
	root.AddCommand(serve)

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and seed the first planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Bootstrap()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())
			return app.Migrate(cmd.Context(), cfg, a.DB())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "send-reminders",
		Short: "Run one pass of automatic RSVP reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				sent := a.SendReminders(ctx)
				logger.Info("Reminder pass finished", "sent", sent)
				return a.Close(context.Background())
			})
		},
	})

	// без подкоманды - сервер
	root.RunE = serve.RunE

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", "error", err)
		logger.Sync()
		stop()
		os.Exit(1)
	}
	logger.Sync()
}

func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := app.Bootstrap()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}
