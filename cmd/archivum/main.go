package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archivum/archivum/cmd"
	"github.com/archivum/archivum/pkg/logging"
)

func rootMain(command *cobra.Command, arguments []string) {
	command.Help()
}

func applyLogLevel(command *cobra.Command, arguments []string) error {
	if rootConfiguration.logLevel == "" {
		return nil
	}
	level, ok := logging.NameToLevel(rootConfiguration.logLevel)
	if !ok {
		return fmt.Errorf("invalid log level: %s", rootConfiguration.logLevel)
	}
	logging.SetLevel(level)
	return nil
}

var rootCommand = &cobra.Command{
	Use:               "archivum",
	Short:             "Archivum scans and catalogs file systems for duplicate content and code projects",
	Run:               rootMain,
	PersistentPreRunE: applyLogLevel,
}

var rootConfiguration struct {
	help bool
	// logLevel, if set, overrides ARCHIVUM_LOG_LEVEL for this invocation.
	// One of disabled, error, warn, info, debug, trace.
	logLevel string
}

func init() {
	flags := rootCommand.Flags()
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")

	rootCommand.PersistentFlags().StringVar(&rootConfiguration.logLevel, "log-level", "", "Override the log level (disabled, error, warn, info, debug, trace)")

	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		scanCommand,
		uploadCommand,
	)
}

func main() {
	cmd.HandleTerminalCompatibility()

	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
