package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/doclens-app/doclens/cli/util"
	"github.com/doclens-app/doclens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage doclens configuration",
	Long:  `View configuration and manage the stored Gemini API key.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the resolved configuration",
	Long: `Show the configuration after merging the config file, environment
variables and the system keychain. The API key is masked.

Examples:
  doclens config show
  doclens config show --display json`,
	RunE: runConfigShow,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Store the Gemini API key in the system keychain",
	Long: `Save the Gemini API key in the system keychain. Without an argument the
key is prompted for without echo.

Examples:
  doclens config set-key
  doclens config set-key AIza...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigSetKey,
}

var configUnsetKeyCmd = &cobra.Command{
	Use:   "unset-key",
	Short: "Remove the Gemini API key from the system keychain",
	RunE:  runConfigUnsetKey,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration and data file locations",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configUnsetKeyCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadUnvalidated()
	if err != nil {
		return err
	}

	out := GetFormatter()

	apiKey := "not set"
	if cfg.APIKey != "" {
		apiKey = util.MaskToken(cfg.APIKey)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "none"
	}

	out.PrintKeyValue("api_key", apiKey)
	out.PrintKeyValue("model", cfg.Model)
	out.PrintKeyValue("timeout", cfg.Timeout.String())
	out.PrintKeyValue("output_dir", cfg.OutputDir)
	out.PrintKeyValue("server", cfg.Server.Addr())
	out.PrintKeyValue("log_level", cfg.Log.Level)
	out.PrintKeyValue("config_file", configFile)
	out.PrintKeyValue("keychain", keychainStatus(cfg))

	return nil
}

func keychainStatus(cfg *config.Config) string {
	if cfg.Keyring.Disabled {
		return "disabled"
	}
	if config.KeychainAvailable() {
		return "available"
	}
	return "unavailable"
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		if !util.IsInteractive() {
			return fmt.Errorf("no key argument and stdin is not a terminal")
		}
		var err error
		key, err = util.ReadPassword("Gemini API key: ")
		if err != nil {
			return err
		}
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	if !config.KeychainAvailable() {
		return fmt.Errorf("no system keychain available; set GOOGLE_API_KEY in the environment instead")
	}

	if err := config.SaveAPIKeyToKeychain(key); err != nil {
		return err
	}

	GetFormatter().PrintSuccess("API key stored in system keychain")
	return nil
}

func runConfigUnsetKey(cmd *cobra.Command, args []string) error {
	if err := config.DeleteAPIKeyFromKeychain(); err != nil {
		return err
	}

	GetFormatter().PrintSuccess("API key removed from system keychain")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	// Resolving the file location runs the same search as loading.
	if _, err := config.LoadUnvalidated(); err != nil {
		return err
	}

	out := GetFormatter()

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "none (searched: ./doclens.yaml, user config dir)"
	}
	out.PrintKeyValue("config_file", configFile)

	dir, err := config.DataDir()
	if err != nil {
		return err
	}
	out.PrintKeyValue("data_dir", dir)

	return nil
}
