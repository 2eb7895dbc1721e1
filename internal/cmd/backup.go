package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"zonevault/internal/zonevault"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot every visible hosted zone into object storage",
	Long: `Enumerate all Route 53 hosted zones visible to the configured credentials
and upload one snapshot per zone. All zones in a run share the same capture
timestamp, so a run forms a coherent fleet-wide checkpoint. One zone's
failure never aborts the others.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().String("format", getEnvWithDefault("ZONEVAULT_FORMAT", "json"), "Snapshot format: json or yaml (env: ZONEVAULT_FORMAT)")
	backupCmd.Flags().Bool("pretty", true, "Pretty-print encoded snapshots")
	backupCmd.Flags().Bool("capacity-guard", getEnvBoolWithDefault("ZONEVAULT_CAPACITY_GUARD", false), "Refuse uploads when storage usage exceeds the threshold (env: ZONEVAULT_CAPACITY_GUARD)")
	backupCmd.Flags().Float64("capacity-threshold", getEnvFloat64WithDefault("ZONEVAULT_CAPACITY_THRESHOLD", 95.0), "Storage usage percentage that blocks uploads (env: ZONEVAULT_CAPACITY_THRESHOLD)")
	addMinioFlags(backupCmd)
	addAWSFlags(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	if err := loadEnvFromFlag(cmd); err != nil {
		return err
	}

	client, err := newDNSClient(cmd)
	if err != nil {
		return err
	}
	store, err := newSnapshotStore(cmd)
	if err != nil {
		return err
	}
	store.SetCapacityGuard(mustGetBoolFlag(cmd, "capacity-guard"), mustGetFloat64Flag(cmd, "capacity-threshold"))

	backupper := zonevault.NewBackupper(client, store, zonevault.BackupOptions{
		Format: strings.ToLower(mustGetStringFlag(cmd, "format")),
		Pretty: mustGetBoolFlag(cmd, "pretty"),
	})
	backupper.SetVerbosity(verbosity(cmd))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := backupper.RunBackup(ctx)
	if err != nil && report == nil {
		return fmt.Errorf("backup failed to start: %w", err)
	}
	interrupted := errors.Is(err, context.Canceled)

	fmt.Println()
	fmt.Printf("Backup run %s: %d zone(s), %d succeeded, %d failed\n",
		zonevault.CaptureStamp(report.Captured), len(report.Zones), report.Successes(), report.Failures())
	if interrupted {
		fmt.Println("⚠ Run interrupted; zones listed above are the only ones captured")
	}

	if err != nil {
		return err
	}
	if failures := report.Failures(); failures > 0 {
		return fmt.Errorf("%d of %d zone(s) failed to back up", failures, len(report.Zones))
	}
	return nil
}
