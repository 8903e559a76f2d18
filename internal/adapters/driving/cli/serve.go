package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docuchat/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docuchat/internal/logger"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the docuchat HTTP API. The vector index is rebuilt from the
document store on startup, then the server accepts ingestion, chat,
search, document and feedback requests until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := file.LoadConfig(configPath())
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	app, err := buildApplication(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	logger.Section("startup")
	n, err := app.documents.RebuildIndex(context.Background())
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	logger.Info("index rebuilt: %d chunks", n)

	server := httpapi.NewServer(
		httpapi.Config{APIKey: cfg.Server.APIKey},
		httpapi.Services{
			Chat:      app.chat,
			Ingestion: app.ingestion,
			Search:    app.search,
			Documents: app.documents,
			Feedback:  app.feedback,
		},
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		cmd.Printf("received %s, shutting down\n", sig)
		return server.Shutdown()
	}
}
