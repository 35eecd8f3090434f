package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdbarr/server"
)

var serveAddress string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve TheTVDB lookups as a JSON API",
	Long: `Start an HTTP server exposing search, series and episode lookups as JSON
under /api. The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address (overrides server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	serverCfg := cfg.Server
	if serveAddress != "" {
		serverCfg.Address = serveAddress
	}

	if !tvdbClient.IsConfigured() {
		logger.Warn().Msg("No TheTVDB API key configured, only search will be available")
	}

	srv := server.New(serverCfg, server.NewHandlers(tvdbClient, filters), logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}
