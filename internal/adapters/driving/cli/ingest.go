package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat/internal/adapters/driven/config/file"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents from the local filesystem",
	Long: `Chunks, embeds and stores the given files without starting the
server. A running server picks the documents up on its next index
rebuild.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := file.LoadConfig(configPath())
	if err != nil {
		return err
	}

	app, err := buildApplication(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	ctx := context.Background()
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		res, err := app.ingestion.Ingest(ctx, filepath.Base(path), data)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}

		cmd.Printf("%s: %d chunks (file id %s)\n", res.FileName, res.TotalChunks, res.FileID)
	}

	return nil
}
