package commands

import (
	"fmt"

	"github.com/conduit-lang/jsonres/internal/web/server"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddress string

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured resources over HTTP",
		Long: `Start an HTTP server exposing every configured resource.

Each resource gets an index route (/posts) and a show route (/posts/{post});
has_many relationships marked with route: true also get a nested collection
route (/users/{author}/posts).

Examples:
  jsonres serve
  jsonres serve --config api.yaml
  jsonres serve --address :9090`,
		RunE: runServe,
	}

	cmd.Flags().StringVarP(&serveAddress, "address", "a", "", "Listen address (overrides server.address)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{cache: true, middleware: true})
	if err != nil {
		return err
	}

	serverConfig := server.FromConfig(a.cfg.Server, a.router)
	if serveAddress != "" {
		serverConfig.Address = serveAddress
	}
	if a.db != nil {
		serverConfig.Database = server.DefaultDatabaseConfig(a.db)
	}

	srv, err := server.New(serverConfig)
	if err != nil {
		_ = a.Close(cmd.Context())
		return fmt.Errorf("failed to start server: %w", err)
	}

	infoColor := color.New(color.FgCyan)
	if noColor {
		infoColor.DisableColor()
	}
	infoColor.Fprintf(cmd.OutOrStdout(), "Serving %d resources on %s\n", len(a.catalog.Resources()), serverConfig.Address)

	shutdown := server.NewGracefulShutdown(srv, &server.ShutdownConfig{
		Timeout: a.cfg.Server.ShutdownTimeout,
		Logger:  a.logger,
	})
	shutdown.RegisterHook(a.Close)

	if err := shutdown.Start(); err != nil {
		a.logger.Error("server stopped", zap.Error(err))
		_ = a.Close(cmd.Context())
		return err
	}
	return nil
}
