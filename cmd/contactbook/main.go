package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lrtraviteja/contact-book-app/pkg/client"
	"github.com/lrtraviteja/contact-book-app/pkg/config"
	"github.com/lrtraviteja/contact-book-app/pkg/logger"
)

var (
	// Global flags
	configPath string
	logLevel   string
	apiURL     string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "contactbook",
	Short: "Contact book server and client",
	Long: `contactbook keeps a list of contacts (name, email, phone) behind a small
HTTP API and ships a CLI and terminal UI that talk to it.

Start the API with "contactbook serve", then use "contactbook ui" or the
list/add/delete commands from another terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Logging.Level = logLevel
		}
		if apiURL != "" {
			loaded.Client.BaseURL = apiURL
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		return logger.Init(logger.Options{
			Level:  cfg.Logging.Level,
			JSON:   cfg.Logging.JSON,
			Output: cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.contactbook/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "contacts API base URL for client commands")

	rootCmd.AddCommand(
		serveCmd,
		listCmd,
		addCmd,
		deleteCmd,
		deleteAllCmd,
		uiCmd,
		exportCmd,
		migrateCmd,
		configCmd,
	)
}

func newClient() *client.Client {
	return client.New(cfg.Client.BaseURL, cfg.ClientTimeout())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
