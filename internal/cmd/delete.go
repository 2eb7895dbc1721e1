package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [capture-key...]",
	Short: "Delete stored zone snapshots",
	Args:  cobra.ArbitraryArgs,
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().Bool("dry-run", false, "Preview deletions without performing them")
	deleteCmd.Flags().Bool("delete-all", false, "Delete all snapshots (respects --prefix)")
	deleteCmd.Flags().String("prefix", "", "Filter by key prefix")
	addMinioFlags(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := loadEnvFromFlag(cmd); err != nil {
		return err
	}

	store, err := newSnapshotStore(cmd)
	if err != nil {
		return err
	}

	dryRun := mustGetBoolFlag(cmd, "dry-run")
	deleteAll := mustGetBoolFlag(cmd, "delete-all")
	prefix := mustGetStringFlag(cmd, "prefix")

	var captureKeys []string

	if deleteAll {
		snapshots, err := store.List(cmd.Context(), prefix, 0)
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}
		for _, snapshot := range snapshots {
			captureKeys = append(captureKeys, snapshot.Key)
		}
		if len(captureKeys) == 0 {
			fmt.Println("No snapshots found to delete")
			return nil
		}
		fmt.Printf("Will delete %d snapshot(s)\n", len(captureKeys))
	} else if len(args) > 0 {
		captureKeys = args
	} else {
		return fmt.Errorf("capture key required or use --delete-all")
	}

	if err := store.Delete(cmd.Context(), captureKeys, dryRun); err != nil {
		return fmt.Errorf("failed to delete snapshots: %w", err)
	}

	if !dryRun {
		fmt.Printf("\n✓ Deleted %d snapshot(s)\n", len(captureKeys))
	}
	return nil
}
