package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"dirsync/core/account"
	"dirsync/core/config"
	"dirsync/core/directory"
	"dirsync/core/local"
	"dirsync/core/logger"
	"dirsync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for sync command
	dryRunSync   bool
	preserveSync bool
	yesConfirm   bool
	overrideSync []string
)

// syncCmd reconciles the local account database against the directory.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile local accounts against the directory",
	Long: `Sync harvests users and groups from the directory and from the local
account database, computes the difference, and applies it through the
system account tools.

Groups are created before users, membership is rewritten after users
exist, and stale local entries are deleted last. Members of the protected
admin group are never touched.

Examples:
  # Report what would change (no mutations)
  dirsync sync --dry-run

  # Apply changes (with interactive confirmation)
  dirsync sync

  # Apply with auto-confirm (non-interactive)
  dirsync sync --yes

  # Keep stale local accounts instead of deleting them
  dirsync sync --preserve --yes

  # Force a homedir base for every harvested user
  dirsync sync -o home=/srv/home --yes`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Report the planned changes without applying them")
	syncCmd.Flags().BoolVar(&preserveSync, "preserve", false, "Keep local accounts absent from the directory")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	syncCmd.Flags().StringArrayVarP(&overrideSync, "override", "o", nil, "Override a harvested attribute (home=<path> or shell=<path>, repeatable)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	base, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	l := logger.WithRunID(base)

	// Validate inputs before touching anything
	filter := account.Filter{
		UserPattern:  cfg.Sync.UserPattern,
		GroupPattern: cfg.Sync.GroupPattern,
	}
	if err := filter.Validate(); err != nil {
		return err
	}

	over, err := directory.ParseOverrides(overrideSync)
	if err != nil {
		return err
	}

	if err := cfg.Directory.Validate(); err != nil {
		return err
	}

	l.Info("Starting account synchronization",
		zap.Bool("dry_run", dryRunSync),
		zap.Bool("preserve", preserveSync),
	)

	// Harvest the local side first: its protected set guards the whole run.
	store := local.NewFileStore(cfg.Local)
	localSnap, protected, err := local.NewHarvester(store, cfg.Local, filter, l).Harvest()
	if err != nil {
		return fmt.Errorf("failed to harvest local accounts: %w", err)
	}
	l.Info("Harvested local accounts",
		zap.Int("users", len(localSnap.Users)),
		zap.Int("groups", len(localSnap.Groups)),
		zap.Int("protected", len(protected)),
	)

	// Connect to the directory
	client, err := directory.Connect(cfg.Directory, l)
	if err != nil {
		return fmt.Errorf("failed to connect to directory: %w", err)
	}
	defer func() { _ = client.Close() }()

	dirSnap, err := directory.NewHarvester(client, cfg.Directory, filter, over, l).Harvest()
	if err != nil {
		return fmt.Errorf("failed to harvest directory accounts: %w", err)
	}
	l.Info("Harvested directory accounts",
		zap.Int("users", len(dirSnap.Users)),
		zap.Int("groups", len(dirSnap.Groups)),
	)

	// Check confirmation
	if !dryRunSync {
		if !confirmDestructiveAction() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	opts := reconcile.Options{DryRun: dryRunSync, Preserve: preserveSync}
	engine := reconcile.NewEngine(local.NewExecApplier(l), localSnap, protected, opts, l)
	sum := engine.Sync(ctx, dirSnap)

	printSyncReport(l, sum, dryRunSync)

	if sum.Failed > 0 {
		return fmt.Errorf("sync finished with %d failed operations", sum.Failed)
	}
	return nil
}

// printSyncReport prints a formatted run summary using logger.
func printSyncReport(l *zap.Logger, sum reconcile.Summary, dryRun bool) {
	msg := "Synchronization report"
	if dryRun {
		msg = "Synchronization report (dry-run, nothing applied)"
	}

	l.Info(msg,
		zap.Int("users_created", sum.UsersCreated),
		zap.Int("users_modified", sum.UsersModified),
		zap.Int("users_deleted", sum.UsersDeleted),
		zap.Int("groups_created", sum.GroupsCreated),
		zap.Int("groups_modified", sum.GroupsModified),
		zap.Int("groups_deleted", sum.GroupsDeleted),
		zap.Int("unchanged", sum.Noops),
		zap.Int("preserved", sum.Preserved),
		zap.Int("failed", sum.Failed),
		zap.Int("total_changes", sum.Changes()),
	)

	if sum.Changes() == 0 && sum.Failed == 0 {
		l.Info("Local accounts already consistent with the directory")
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm account changes: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
