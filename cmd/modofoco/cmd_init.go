package main

import (
	"fmt"
	"os"

	"modofoco/internal/config"

	"github.com/spf13/cobra"
)

var initForce bool

// initConfigCmd writes the default configuration
var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default configuration file",
	Long: `Writes the default YAML configuration to --config
(default .modofoco/config.yaml). Existing files are kept unless --force.`,
	// The config may not exist or be valid yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runInitConfig,
}

func init() {
	initConfigCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s (use --force to overwrite)\n", configPath)
		return nil
	}
	c := config.DefaultConfig()
	if userID != "" {
		c.User.ID = userID
	}
	if err := c.Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", configPath)
	return nil
}
