// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/trs-records/internal/config"
	"fjacquet/trs-records/internal/container"
	"fjacquet/trs-records/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
	LogLevel string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "trs-records",
		Short: "A CLI tool to extract transaction records from paginated statements.",
		Long: `trs-records extracts SALE and VOIDED transaction records from statement
PDFs (or their extracted text), reports how many of each were found and
exports them to CSV.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to trs-records!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before conversion")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
}

// initialize loads the configuration and builds the dependency container.
func initialize(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	SetContainer(c)
	return nil
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the application container and the shared logger.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}
