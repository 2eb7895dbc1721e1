package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var testMinioCmd = &cobra.Command{
	Use:   "test-minio",
	Short: "Test the Minio connection for snapshot storage",
	Args:  cobra.NoArgs,
	RunE:  runTestMinio,
}

var testRoute53Cmd = &cobra.Command{
	Use:   "test-route53",
	Short: "Test Route 53 connectivity with the configured credentials",
	Args:  cobra.NoArgs,
	RunE:  runTestRoute53,
}

var connCmd = &cobra.Command{
	Use:   "conn",
	Short: "Test connections to both Route 53 and Minio",
	Args:  cobra.NoArgs,
	RunE:  runConn,
}

func init() {
	addMinioFlags(testMinioCmd)
	addAWSFlags(testRoute53Cmd)
	addMinioFlags(connCmd)
	addAWSFlags(connCmd)
}

func runTestMinio(cmd *cobra.Command, args []string) error {
	if err := loadEnvFromFlag(cmd); err != nil {
		return err
	}

	store, err := newSnapshotStore(cmd)
	if err != nil {
		return err
	}

	fmt.Println("Testing Minio connection for snapshot storage...")
	fmt.Println()

	if err := store.TestConnection(cmd.Context()); err != nil {
		return fmt.Errorf("Minio connection test failed: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ All Minio tests passed successfully")
	return nil
}

func runTestRoute53(cmd *cobra.Command, args []string) error {
	if err := loadEnvFromFlag(cmd); err != nil {
		return err
	}

	client, err := newDNSClient(cmd)
	if err != nil {
		return err
	}

	fmt.Println("Testing Route 53 connectivity...")
	fmt.Println()

	if err := client.TestConnection(cmd.Context()); err != nil {
		return fmt.Errorf("Route 53 connection test failed: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Route 53 is reachable with the configured credentials")
	return nil
}

func runConn(cmd *cobra.Command, args []string) error {
	fmt.Println("Testing connections for zone backups...")
	fmt.Println()

	fmt.Println("=" + strings.Repeat("=", 50))
	fmt.Println("Testing Route 53 Connection")
	fmt.Println("=" + strings.Repeat("=", 50))
	fmt.Println()

	if err := runTestRoute53(cmd, args); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("=" + strings.Repeat("=", 50))
	fmt.Println("Testing Minio Connection")
	fmt.Println("=" + strings.Repeat("=", 50))
	fmt.Println()

	if err := runTestMinio(cmd, args); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("=" + strings.Repeat("=", 50))
	fmt.Println("✓ All connection tests passed")
	fmt.Println("=" + strings.Repeat("=", 50))

	return nil
}
