package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func findEnvArg(argv []string) string {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if strings.HasPrefix(arg, "--env=") {
			return strings.TrimPrefix(arg, "--env=")
		}
		if arg == "--env" && i+1 < len(argv) {
			return argv[i+1]
		}
	}
	return ""
}

// Helper functions for environment variable support
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvFloat64WithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// mustGetStringFlag retrieves a string flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetStringFlag(cmd *cobra.Command, name string) string {
	val, _ := cmd.Flags().GetString(name)
	return val
}

// mustGetBoolFlag retrieves a bool flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetBoolFlag(cmd *cobra.Command, name string) bool {
	val, _ := cmd.Flags().GetBool(name)
	return val
}

// mustGetIntFlag retrieves an int flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetIntFlag(cmd *cobra.Command, name string) int {
	val, _ := cmd.Flags().GetInt(name)
	return val
}

// mustGetFloat64Flag retrieves a float64 flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetFloat64Flag(cmd *cobra.Command, name string) float64 {
	val, _ := cmd.Flags().GetFloat64(name)
	return val
}

// mustGetDurationFlag retrieves a duration flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetDurationFlag(cmd *cobra.Command, name string) time.Duration {
	val, _ := cmd.Flags().GetDuration(name)
	return val
}

// mustGetStringSliceFlag retrieves a string slice flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetStringSliceFlag(cmd *cobra.Command, name string) []string {
	val, _ := cmd.Flags().GetStringSlice(name)
	return val
}

func loadEnvFromFlag(cmd *cobra.Command) error {
	path := mustGetStringFlag(cmd, "env")
	if path == "" {
		return nil
	}
	if err := godotenv.Overload(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// verbosity maps the persistent output flags to the engine's levels:
// 0=quiet, 1=normal, 2=verbose.
func verbosity(cmd *cobra.Command) int {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return 0
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return 2
	}
	return 1
}
