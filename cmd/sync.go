package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lead-sync/core/config"
	"lead-sync/core/database"
	"lead-sync/core/logger"
	"lead-sync/core/reconcile"
	"lead-sync/core/storage"
	"lead-sync/feature/leads"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	syncOutput      string
	syncFromArchive bool
	syncDryRun      bool
	syncYes         bool
)

// syncCmd reconciles the leads table against a snapshot file.
var syncCmd = &cobra.Command{
	Use:   "sync <snapshot>",
	Short: "Sync the leads table against a snapshot file",
	Long: `Runs the same full-replace sync as POST /sync/leads, reading the
snapshot from a JSON or YAML file ("-" reads JSON from stdin) or, with
--from-archive, from an archived object key.

Leads missing from the snapshot are deleted. When the plan deletes anything
you are asked to confirm unless --yes is given.

Examples:
  # Show what would change
  lead-sync sync leads.json --dry-run

  # Apply, non-interactive, YAML report
  lead-sync sync leads.yaml --yes -o yaml

  # Replay an archived delivery
  lead-sync sync snapshots/2024/05/07/1715076000000000000-3f2a9c1b0d4e.json --from-archive --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncOutput, "output", "o", "json", "Result format (json, yaml)")
	syncCmd.Flags().BoolVar(&syncFromArchive, "from-archive", false, "Treat the argument as an archived object key")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print the plan without applying it")
	syncCmd.Flags().BoolVar(&syncYes, "yes", false, "Auto-confirm deletions (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	body, err := readSnapshot(ctx, cfg, args[0])
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	store := leads.NewStore(db)
	if err := store.CheckSchema(); err != nil {
		return fmt.Errorf("%w (run 'lead-sync migrate' first)", err)
	}

	svc := leads.NewService(store, nil, l, cfg.Sync)

	plan, skips, err := svc.Preview(ctx, body)
	if err != nil {
		return fmt.Errorf("failed to plan sync: %w", err)
	}
	printSyncPlan(l, plan, skips)

	if syncDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if len(plan.ToDelete) > 0 && !confirmDeletes(cmd.InOrStdin(), cmd.OutOrStdout(), len(plan.ToDelete)) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	res, syncErr := svc.Sync(ctx, body)
	if err := writeResult(cmd.OutOrStdout(), syncOutput, res, syncErr); err != nil {
		return err
	}
	if syncErr != nil {
		return fmt.Errorf("sync finished with errors: %w", syncErr)
	}
	return nil
}

// readSnapshot returns the snapshot as a JSON sync body.
func readSnapshot(ctx context.Context, cfg *config.Config, source string) ([]byte, error) {
	if syncFromArchive {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		return storage.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.ArchivePrefix).Load(ctx, source)
	}

	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		return yamlToJSON(data)
	default:
		return data, nil
	}
}

// yamlToJSON converts a YAML snapshot ({leads: [...]}) to a JSON body.
func yamlToJSON(data []byte) ([]byte, error) {
	var payload leads.Payload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse yaml snapshot: %w", err)
	}
	if payload.Leads == nil {
		payload.Leads = []reconcile.RawRow{}
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to convert yaml snapshot: %w", err)
	}
	return out, nil
}

func printSyncPlan(l *zap.Logger, plan reconcile.Plan, skips []reconcile.SkipReason) {
	l.Info("Sync plan",
		zap.Int("to_create", len(plan.ToCreate)),
		zap.Int("to_update", len(plan.ToUpdate)),
		zap.Int("to_delete", len(plan.ToDelete)),
		zap.Int("unchanged", len(plan.Unchanged)),
		zap.Int("skipped", len(skips)),
	)

	maxShow := min(5, len(plan.ToDelete))
	for _, id := range plan.ToDelete[:maxShow] {
		l.Info("Sample deletion", zap.String("id", id))
	}
	if len(plan.ToDelete) > maxShow {
		l.Info("Additional deletions not shown", zap.Int("count", len(plan.ToDelete)-maxShow))
	}
	for _, s := range skips {
		l.Info("Skipped row", zap.Int("index", s.Index), zap.String("reason", s.Reason))
	}
}

// confirmDeletes prompts for confirmation unless --yes was given.
func confirmDeletes(in io.Reader, out io.Writer, n int) bool {
	if syncYes {
		return true
	}

	fmt.Fprintf(out, "\n%d leads will be deleted. Type 'yes' to confirm: ", n)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

func writeResult(w io.Writer, format string, res reconcile.SyncResult, syncErr error) error {
	resp := leads.NewSyncResponse(res, syncErr)

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
