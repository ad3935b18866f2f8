package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chirpd/chirpd/pkg/rest"
)

var servePort int

// serveCmd starts the CRUD API backed by the in-memory store.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tweet CRUD API",
	Long: `Start the JSON CRUD API for tweets and users, backed by an in-memory
store seeded with sample data.`,
	Example: `  # Start with defaults (port 3000)
  chirpd serve

  # Start on a custom port
  chirpd serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.REST.Port = servePort
		}
		log := newLogger(cfg)

		api := rest.New(cfg.REST.Port, rest.WithLogger(log))
		if err := api.Start(); err != nil {
			return fmt.Errorf("starting CRUD API: %w", err)
		}

		waitForShutdown()
		log.Info("shutting down")
		return api.Stop()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "HTTP server port")
}

// waitForShutdown blocks until SIGINT or SIGTERM.
func waitForShutdown() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
