package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"zonevault/internal/zonevault"
)

var readCmd = &cobra.Command{
	Use:   "read [capture-key]",
	Short: "Read a stored zone snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRead,
}

func init() {
	readCmd.Flags().String("output", "", "File to write the snapshot to (default: stdout)")
	readCmd.Flags().String("format", "", "Re-encode in this format (json or yaml; default: stored format)")
	readCmd.Flags().Bool("latest", false, "Read the most recent snapshot")
	readCmd.Flags().String("prefix", "", "Prefix to search when using --latest")
	addMinioFlags(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	if err := loadEnvFromFlag(cmd); err != nil {
		return err
	}

	store, err := newSnapshotStore(cmd)
	if err != nil {
		return err
	}

	var captureKey string
	if len(args) > 0 {
		captureKey = args[0]
	} else if mustGetBoolFlag(cmd, "latest") {
		prefix := mustGetStringFlag(cmd, "prefix")
		snapshots, err := store.List(cmd.Context(), prefix, 1)
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}
		if len(snapshots) == 0 {
			return fmt.Errorf("no snapshots found")
		}
		captureKey = snapshots[0].Key
	} else {
		return fmt.Errorf("capture key required or use --latest")
	}

	payload, err := store.Get(cmd.Context(), captureKey)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if format := strings.ToLower(mustGetStringFlag(cmd, "format")); format != "" {
		snapshot, err := zonevault.DecodeSnapshot(payload, zonevault.DetectFormatFromKey(captureKey))
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", captureKey, err)
		}
		payload, err = zonevault.EncodeSnapshot(snapshot, format, true)
		if err != nil {
			return fmt.Errorf("failed to re-encode snapshot: %w", err)
		}
	}

	outputPath := mustGetStringFlag(cmd, "output")
	if outputPath == "" {
		fmt.Println(string(payload))
		return nil
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	fmt.Printf("✓ Snapshot saved to: %s\n", outputPath)
	return nil
}
