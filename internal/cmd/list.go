package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored zone snapshots",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("prefix", "", "Filter by key prefix (e.g. a capture stamp)")
	listCmd.Flags().Int("limit", 100, "Maximum number of snapshots to list (0 = unlimited)")
	listCmd.Flags().Bool("json", false, "Output as JSON")
	addMinioFlags(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := loadEnvFromFlag(cmd); err != nil {
		return err
	}

	store, err := newSnapshotStore(cmd)
	if err != nil {
		return err
	}

	prefix := mustGetStringFlag(cmd, "prefix")
	limit := mustGetIntFlag(cmd, "limit")

	snapshots, err := store.List(cmd.Context(), prefix, limit)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Println("No zone snapshots found")
		return nil
	}

	if mustGetBoolFlag(cmd, "json") {
		data, err := json.MarshalIndent(snapshots, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Found %d zone snapshot(s):\n\n", len(snapshots))
	for i, snapshot := range snapshots {
		fmt.Printf("%d. %s\n", i+1, snapshot.Key)
		fmt.Printf("   Zone: %s\n", snapshot.ZoneName)
		fmt.Printf("   Size: %.2f KB\n", float64(snapshot.Size)/1024)
		fmt.Printf("   Modified: %s\n", snapshot.LastModified.Format("2006-01-02 15:04:05 MST"))
		fmt.Println()
	}

	return nil
}
