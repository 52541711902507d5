package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/writetutor/internal/dashboard"
	"github.com/ziadkadry99/writetutor/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the browser chat server",
	Long:  `Starts the HTTP server with the chat page, its websocket and the call history API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := setupTutor()
		if err != nil {
			return err
		}
		defer setup.close()

		port := setup.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: setup.cfg.Server.AllowAllOrigins,
			Logger:   logger,
		})

		dash := dashboard.New(dashboard.Config{
			Analyzer:  setup.client,
			Explainer: setup.client,
			Calls:     setup.calls,
			Logger:    logger,

			AllowAllOrigins: setup.cfg.Server.AllowAllOrigins,
		})
		dash.RegisterRoutes(srv.Router(), srv.API())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown", "error", err)
			}
		}()

		fmt.Fprintf(os.Stderr, "writetutor server %s starting on http://localhost:%d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", setup.cfg.Provider, setup.cfg.EffectiveModel())
		if setup.calls == nil {
			fmt.Fprintln(os.Stderr, "  Call log: disabled")
		}

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
