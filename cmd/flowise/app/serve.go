package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brygal1/flowise/pkg/api"
	v1 "github.com/brygal1/flowise/pkg/api/v1"
	"github.com/brygal1/flowise/pkg/credentials"
	"github.com/brygal1/flowise/pkg/credentials/memory"
	"github.com/brygal1/flowise/pkg/credentials/sqlite"
	"github.com/brygal1/flowise/pkg/logger"
	"github.com/brygal1/flowise/pkg/networking"
	"github.com/brygal1/flowise/pkg/oauth"
	"github.com/brygal1/flowise/pkg/oauth/providers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the connection service API server",
	Long: `Start the API server that initiates OAuth flows and handles
provider callbacks. Credentials are stored in a SQLite database unless
--ephemeral is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("address", ":8080", "Address to listen on")
	serveCmd.Flags().String("db", "flowise.db", "Path to the credential database")
	serveCmd.Flags().Bool("ephemeral", false, "Keep credentials in memory instead of on disk")

	for _, flag := range []string{"address", "db", "ephemeral"} {
		if err := viper.BindPFlag(flag, serveCmd.Flags().Lookup(flag)); err != nil {
			logger.Fatalf("Failed to bind %s flag: %v", flag, err)
		}
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	address := viper.GetString("address")

	var store credentials.Store
	var health v1.Pinger
	if viper.GetBool("ephemeral") {
		logger.Infof("Using in-memory credential store")
		mem := memory.NewStore()
		store, health = mem, mem
	} else {
		dbPath := viper.GetString("db")
		logger.Infof("Using credential database at %s", dbPath)
		db, err := sqlite.NewStore(ctx, dbPath)
		if err != nil {
			return fmt.Errorf("failed to open credential store: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warnf("failed to close credential store: %v", err)
			}
		}()
		store, health = db, db
	}

	providerClient := networking.NewHttpClientBuilder().Build()
	registry := providers.NewRegistry()
	for _, d := range providers.DefaultDescriptors(providerClient) {
		registry.Register(d)
	}

	coordinator := oauth.NewCoordinator(registry, store)

	return api.Serve(ctx, api.ServerConfig{
		Address:     address,
		Coordinator: coordinator,
		Registry:    registry,
		Health:      health,
	})
}
