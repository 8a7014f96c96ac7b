package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vkutk/bridge/internal/config"
	"github.com/vkutk/bridge/internal/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage vkubridge's configuration.

The configuration file is stored at ~/.config/vkubridge/config.yaml
(or $XDG_CONFIG_HOME/vkubridge/config.yaml if XDG_CONFIG_HOME is set).`,
	// The config subcommands must work even when the file is invalid.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		term.SetSilent(silentFlag)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective config",
	Long: `Print the effective configuration as YAML.

If no config file exists, shows the default configuration.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file path",
	Args:  cobra.NoArgs,
	Run:   runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config file",
	Long: `Create the default configuration file if it doesn't exist.

This creates a commented configuration file with all default values.
If the file already exists, this command does nothing.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFlag)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := config.Marshal(loaded)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	term.Print(string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) {
	if configFlag != "" {
		term.Println(configFlag)
		return
	}
	term.Println(config.Path())
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	term.Printf("Config file: %s\n", config.Path())
	return nil
}
