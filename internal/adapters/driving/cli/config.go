package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long: `View and set configuration values.

Well-known keys:
  provider.api_key        chat/embedding provider API key
  provider.type           embedding provider (openai or ollama)
  board.path              path to the board document
  index.cluster_threshold spatial clustering distance in page units
  capture.width           capture region width in page units
  capture.height          capture region height in page units`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// ensureConfig wires only the config store, so config commands work before
// a provider or board is set up.
func ensureConfig() error {
	if configStore != nil {
		return nil
	}
	store, err := newConfigStore()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = store
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	cmd.Println("Configuration")
	cmd.Println("=============")
	cmd.Println()

	showKey(cmd, "board.path")
	showKey(cmd, "provider.type")
	showKey(cmd, driven.ConfigKeyAPIKey)
	showKey(cmd, driven.ConfigKeyClusterThreshold)
	showKey(cmd, driven.ConfigKeyCaptureWidth)
	showKey(cmd, driven.ConfigKeyCaptureHeight)

	return nil
}

func showKey(cmd *cobra.Command, key string) {
	value, ok := configStore.Get(key)
	if !ok {
		cmd.Printf("  %s: (not set)\n", key)
		return
	}
	if key == driven.ConfigKeyAPIKey {
		cmd.Printf("  %s: %s\n", key, maskAPIKey(fmt.Sprintf("%v", value)))
		return
	}
	cmd.Printf("  %s: %v\n", key, value)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	if args[0] == driven.ConfigKeyAPIKey {
		cmd.Println(maskAPIKey(fmt.Sprintf("%v", value)))
		return nil
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	key, raw := args[0], args[1]
	if strings.TrimSpace(key) == "" {
		return errors.New("key must not be empty")
	}

	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	cmd.Println(configStore.Path())
	return nil
}

// parseConfigValue converts a CLI string into a typed config value. Numbers
// and booleans are stored typed so GetFloat/GetBool round-trip.
func parseConfigValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
