package main

import (
	"fmt"
	"os"
	"path/filepath"

	"calcnerd/internal/config"
	"calcnerd/internal/logging"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the UI theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{config.ThemeLight, config.ThemeDark, "toggle"},
	RunE:      runTheme,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the calc config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Writes the default config to <workspace>/.calcnerd/config.yaml, or to
--config when given. Once the workspace directory exists it takes
precedence over ~/.calcnerd.`,
	Args: cobra.NoArgs,
	RunE: initConfig,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Args:  cobra.NoArgs,
	RunE:  showConfig,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println(cfg.UI.Theme)
		return nil
	}

	switch args[0] {
	case "toggle":
		cfg.ToggleTheme()
	case config.ThemeLight, config.ThemeDark:
		cfg.UI.Theme = args[0]
	default:
		return fmt.Errorf("%w: theme must be %s, %s or toggle", config.ErrInvalid, config.ThemeLight, config.ThemeDark)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}
	logging.Config("Theme set to %s", cfg.UI.Theme)
	fmt.Println(cfg.UI.Theme)
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if !rootCmd.PersistentFlags().Changed("config") {
		path = filepath.Join(workspace, config.DirName, config.FileName)
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	logging.Config("Wrote default config to %s", path)
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Printf("# %s\n%s", configPath, data)
	return nil
}
