package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/archivum/archivum/pkg/logging"
	"github.com/archivum/archivum/pkg/uploader"
)

func uploadMain(command *cobra.Command, arguments []string) error {
	if uploadConfiguration.verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	logger := logging.RootLogger.Sublogger("upload")

	result, err := uploader.Run(uploader.Options{
		OutputDirectory: arguments[0],
		ServerURL:       uploadConfiguration.serverURL,
		Timeout:         time.Duration(uploadConfiguration.timeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		return errors.Wrap(err, "upload failed")
	}

	logger.Println("upload complete:", result.BatchesSent, "batches,", result.ProjectsSent, "projects")

	return nil
}

var uploadCommand = &cobra.Command{
	Use:   "upload <output-directory>",
	Short: "Replay a scan's output tree to a server",
	Args:  cobra.ExactArgs(1),
	RunE:  uploadMain,
}

var uploadConfiguration struct {
	// help indicates whether to show command-line help.
	help bool
	// serverURL is the base URL of the Archivum server.
	serverURL string
	// timeoutSeconds is the per-request HTTP timeout.
	timeoutSeconds int
	// verbose enables debug-level logging for the replay sequence.
	verbose bool
}

func init() {
	flags := uploadCommand.Flags()
	flags.BoolVarP(&uploadConfiguration.help, "help", "h", false, "Show help information")
	flags.StringVar(&uploadConfiguration.serverURL, "server-url", "http://localhost:8080", "Base URL of the Archivum server")
	flags.IntVar(&uploadConfiguration.timeoutSeconds, "timeout", 60, "Per-request HTTP timeout, in seconds")
	flags.BoolVarP(&uploadConfiguration.verbose, "verbose", "v", false, "Enable verbose logging")
}
