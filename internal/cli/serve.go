package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coBecT/MtsTrueTech/internal/adapters/memory"
	"github.com/coBecT/MtsTrueTech/internal/notify"
	"github.com/coBecT/MtsTrueTech/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the labtrack web server.

Examples:
  labtrack serve                                          # In-memory demo data on port 8080
  labtrack serve --port 3000
  labtrack serve --driver libsql --database-url file:labtrack.db`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close resources")
		}
	}()

	if cfg.InsecureSecret() {
		log.Warn().Msg("using the built-in session secret; set session.secret for shared deployments")
	}

	registry := notify.New(memory.SeedNotifications(time.Now())...)
	defer func() { _ = registry.Close() }()

	server := web.NewServer(web.Options{
		Port:          cfg.Port,
		Experiments:   app.Experiments,
		Versions:      app.Versions,
		Identities:    app.Identities,
		Files:         app.Files,
		Metrics:       app.Metrics,
		Registry:      registry,
		SessionSecret: cfg.Session.Secret,
		DefaultUser:   memory.SeedUser(),
	})

	log.Info().Int("port", cfg.Port).Str("driver", cfg.Storage.Driver).Msg("labtrack starting")
	return server.Start(ctx)
}
