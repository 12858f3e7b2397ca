package cmd

import (
	"context"
	"fmt"

	"lead-sync/core/config"
	"lead-sync/core/storage"

	"github.com/spf13/cobra"
)

// archiveCmd is the parent command for snapshot archive operations.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect archived snapshots",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived snapshot keys, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		archiver, err := openArchiver()
		if err != nil {
			return err
		}

		keys, err := archiver.List(context.Background())
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

var archiveGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print an archived snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archiver, err := openArchiver()
		if err != nil {
			return err
		}

		data, err := archiver.Load(context.Background(), args[0])
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func openArchiver() (*storage.Archiver, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	return storage.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.ArchivePrefix), nil
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveGetCmd)
	RootCmd.AddCommand(archiveCmd)
}
