package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"zonevault/internal/zonevault"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [capture-key]",
	Short: "Replay a stored snapshot into a target zone",
	Long: `Download the snapshot at the given capture key and recreate its records in
the target zone as CREATE-only change batches of at most 100 records.

NS and SOA records are skipped by default: the target zone already owns its
delegation records, and recreating them would conflict. Pass an explicit
--exclude-types (possibly empty) to override.

Restore is not idempotent. Re-running against a zone that already holds the
records reports a rejection for every batch instead of silently overwriting
values that diverged since the backup was taken.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().String("target-zone", "", "Target zone: hosted zone ID, zone name, or any hostname inside the zone (required)")
	restoreCmd.Flags().StringSlice("exclude-types", nil, "Record types to skip (default: NS,SOA; pass an empty value to skip nothing)")
	restoreCmd.Flags().Int("batch-size", zonevault.MaxBatchSize, "Records per change batch (capped at 100)")
	restoreCmd.MarkFlagRequired("target-zone")
	addMinioFlags(restoreCmd)
	addAWSFlags(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := mustGetStringFlag(cmd, "target-zone")
	zone, err := zonevault.ResolveZone(ctx, client, target)
	if err != nil {
		return err
	}
	if verbosity(cmd) >= 1 && zone.ID != target {
		fmt.Printf("Resolved target '%s' to zone %s (%s)\n", target, zone.Name, zone.ID)
	}

	opts := zonevault.RestoreOptions{BatchSize: mustGetIntFlag(cmd, "batch-size")}
	if cmd.Flags().Changed("exclude-types") {
		opts.ExcludedTypes = mustGetStringSliceFlag(cmd, "exclude-types")
	}

	restorer := zonevault.NewRestorer(client, store, opts)
	restorer.SetVerbosity(verbosity(cmd))

	captureKey := args[0]
	report, err := restorer.RunRestore(ctx, captureKey, zone.ID)
	if err != nil && report == nil {
		return err
	}
	interrupted := errors.Is(err, context.Canceled)

	fmt.Println()
	fmt.Printf("Restore %s -> %s: %d record(s) submitted, %d skipped, %d/%d batch(es) applied\n",
		captureKey, zone.ID, report.RecordsSubmitted, report.RecordsSkipped,
		report.BatchesApplied, len(report.Batches))
	if interrupted {
		fmt.Println("⚠ Run interrupted; remaining batches were not submitted")
	}

	if err != nil {
		return err
	}
	if failures := report.BatchFailures(); failures > 0 {
		return fmt.Errorf("%d of %d batch(es) rejected", failures, len(report.Batches))
	}
	return nil
}
