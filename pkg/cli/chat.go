package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chirpd/chirpd/pkg/chat"
	"github.com/chirpd/chirpd/pkg/sparql"
)

var chatPort int

// chatCmd starts the WebSocket chat relay.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the WebSocket chat relay",
	Long: `Start the chat relay. Clients identify themselves by name over a
WebSocket connection and exchange direct messages. Every message is
persisted to the Fuseki triple store, and the conversation history is
replayed to the sender.`,
	Example: `  # Start with defaults (port 3001, Fuseki at localhost:3030)
  chirpd chat

  # Start against a remote triple store
  chirpd chat --config chirpd.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Chat.Port = chatPort
		}
		log := newLogger(cfg)

		client := sparql.NewClient(cfg.Fuseki.BaseURL, cfg.Fuseki.Dataset,
			sparql.WithTimeout(cfg.Fuseki.Timeout),
			sparql.WithClientLogger(log))
		builder := sparql.NewBuilder(cfg.Fuseki.BaseURL)

		var store chat.MessageStore
		if cfg.Chat.Store == "jsonld" {
			store = chat.NewJSONLDStore(client, builder)
		} else {
			store = chat.NewTripleStore(client, builder)
		}

		api := chat.New(cfg.Chat.Port,
			chat.WithMessageStore(store),
			chat.WithPath(cfg.Chat.Path),
			chat.WithStoreTimeout(cfg.Fuseki.Timeout),
			chat.WithLogger(log))
		if err := api.Start(); err != nil {
			return fmt.Errorf("starting chat relay: %w", err)
		}

		waitForShutdown()
		log.Info("shutting down")
		return api.Stop()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().IntVarP(&chatPort, "port", "p", 3001, "HTTP server port")
}
