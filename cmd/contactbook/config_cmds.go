package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lrtraviteja/contact-book-app/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "server:   %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		fmt.Fprintf(out, "storage:  %s\n", cfg.Storage.Type)
		if cfg.Storage.DatabaseURL != "" {
			fmt.Fprintf(out, "database: %s\n", config.MaskDatabaseURL(cfg.Storage.DatabaseURL))
		}
		if cfg.Storage.FilePath != "" {
			fmt.Fprintf(out, "path:     %s\n", cfg.Storage.FilePath)
		}
		fmt.Fprintf(out, "api:      %s\n", cfg.Client.BaseURL)
		fmt.Fprintf(out, "logging:  %s\n", cfg.Logging.Level)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configSetPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Store the postgres password in the OS keyring",
	Long: `Stores the database password in the OS keyring. A postgres database_url
that names a user without a password picks it up automatically.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret("Database password: ")
		if err != nil {
			return err
		}
		if err := config.SetDatabasePassword(password); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Password stored in keyring")
		return nil
	},
}

var configClearPasswordCmd = &cobra.Command{
	Use:   "clear-password",
	Short: "Remove the postgres password from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DeleteDatabasePassword(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Password removed from keyring")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd, configSetPasswordCmd, configClearPasswordCmd)
}
