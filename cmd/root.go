package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/storefront/internal/config"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

func Start() {
	logger := log.Get("/var/log/storefront.log", config.Application{}).
		Hook(log.AttachTraceIDFromContext()).
		With().
		Str(log.KeyAppName, otel.AppName).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "storefront"}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the storefront server",
		Run: func(cmd *cobra.Command, args []string) {
			RunStorefront(cmd.Context())
		},
	})
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
