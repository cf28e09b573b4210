package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lrtraviteja/contact-book-app/pkg/api"
	"github.com/lrtraviteja/contact-book-app/pkg/bus"
	"github.com/lrtraviteja/contact-book-app/pkg/config"
	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/logger"
	"github.com/lrtraviteja/contact-book-app/pkg/storage"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the contacts HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverCfg := cfg.Server
	if serveHost != "" {
		serverCfg.Host = serveHost
	}
	if servePort != 0 {
		serverCfg.Port = servePort
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	events := bus.NewEventBus()
	defer events.Close()

	svc := contacts.NewService(store.Contacts()).WithEvents(events)
	srv := api.NewServer(serverCfg, svc, store, events)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.InfoC("serve", "Shutting down")
	srv.Stop()
	return nil
}

// openStorage builds and connects the configured backend.
func openStorage(ctx context.Context, c *config.Config) (storage.Storage, error) {
	sc, err := c.ToStorageConfig()
	if err != nil {
		return nil, err
	}
	return connectStorage(ctx, sc)
}

func connectStorage(ctx context.Context, sc storage.Config) (storage.Storage, error) {
	store, err := storage.NewStorage(sc)
	if err != nil {
		return nil, err
	}
	if err := store.Connect(ctx); err != nil {
		store.Close()
		return nil, err
	}

	fields := map[string]interface{}{"type": sc.Type}
	if sc.DatabaseURL != "" {
		fields["database_url"] = config.MaskDatabaseURL(sc.DatabaseURL)
	}
	if sc.FilePath != "" {
		fields["path"] = sc.FilePath
	}
	logger.InfoCF("storage", "Storage connected", fields)
	return store, nil
}
