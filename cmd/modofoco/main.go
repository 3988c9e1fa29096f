package main

import (
	"fmt"
	"os"

	"modofoco/internal/config"
	"modofoco/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	userID     string

	// Loaded in PersistentPreRunE
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "modofoco",
	Short: "ModoFoco - Falcon productivity assistant",
	Long: `ModoFoco records tasks, study sessions, workouts and finance entries
from short Portuguese commands, and awards focus points (FP) for each one.

Examples:
  modofoco send Criar tarefa Revisar contrato
  modofoco send Adicionar saída 45,50 mercado
  modofoco chat

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		if err := logging.Initialize(cfg.Logging.Options()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Base()
		logging.Boot("config loaded from %s (user=%s, store=%s)", configPath, cfg.User.ID, cfg.Store.Driver)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runChat,
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	loaded, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if userID != "" {
		loaded.User.ID = userID
	}
	if verbose {
		loaded.Logging.DebugMode = true
		loaded.Logging.Level = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User id (overrides config and MODOFOCO_USER_ID)")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
