package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chirpd/chirpd/pkg/facade"
	"github.com/chirpd/chirpd/pkg/sparql"
)

var facadePort int

// facadeCmd starts the SPARQL-backed REST and GraphQL façade.
var facadeCmd = &cobra.Command{
	Use:   "facade",
	Short: "Start the SPARQL REST and GraphQL façade",
	Long: `Start the façade exposing the Fuseki triple store as a REST API and a
GraphQL endpoint. Routes are translated to parameterized SPARQL
queries; responses carry the raw result bindings.`,
	Example: `  # Start with defaults (port 3002, Fuseki at localhost:3030)
  chirpd facade

  # Start against a remote triple store
  chirpd facade --config chirpd.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Facade.Port = facadePort
		}
		log := newLogger(cfg)

		entityBase := cfg.Facade.EntityBase
		if entityBase == "" {
			entityBase = cfg.Fuseki.BaseURL
		}
		client := sparql.NewClient(cfg.Fuseki.BaseURL, cfg.Fuseki.Dataset,
			sparql.WithTimeout(cfg.Fuseki.Timeout),
			sparql.WithClientLogger(log))

		api := facade.New(cfg.Facade.Port,
			facade.WithClient(client),
			facade.WithBuilder(sparql.NewBuilder(entityBase)),
			facade.WithLogger(log))
		if err := api.Start(); err != nil {
			return fmt.Errorf("starting façade: %w", err)
		}

		waitForShutdown()
		log.Info("shutting down")
		return api.Stop()
	},
}

func init() {
	rootCmd.AddCommand(facadeCmd)
	facadeCmd.Flags().IntVarP(&facadePort, "port", "p", 3002, "HTTP server port")
}
