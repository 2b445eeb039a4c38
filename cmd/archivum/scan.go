package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/archivum/archivum/cmd"
	"github.com/archivum/archivum/cmd/profile"
	"github.com/archivum/archivum/pkg/logging"
	"github.com/archivum/archivum/pkg/scanner"
)

func scanMain(command *cobra.Command, arguments []string) error {
	logger := logging.RootLogger.Sublogger("scan")

	if scanConfiguration.outputDirectory != "" {
		if _, err := os.Stat(scanConfiguration.outputDirectory); err == nil {
			cmd.Warning("output directory already exists, batch files may be overwritten")
		}
	}

	if scanConfiguration.profile != "" {
		p, err := profile.New(scanConfiguration.profile)
		if err != nil {
			return errors.Wrap(err, "unable to start profiling")
		}
		defer p.Finalize()
	}

	var status cmd.StatusLinePrinter

	// A scan can run for a long time against a large root; if the user
	// interrupts it, wipe the in-progress status line before Fatal prints
	// its own message rather than leaving a half-overwritten line behind.
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, cmd.TerminationSignals...)
	go func() {
		if _, ok := <-interrupted; ok {
			status.Clear()
			cmd.Fatal(errors.New("scan interrupted"))
		}
	}()
	defer signal.Stop(interrupted)

	result, err := scanner.Run(scanner.Options{
		RootPath:        arguments[0],
		SourceName:      scanConfiguration.name,
		SourceType:      scanConfiguration.sourceType,
		OutputDirectory: scanConfiguration.outputDirectory,
		ConfigPath:      scanConfiguration.configPath,
		Threads:         scanConfiguration.threads,
		BatchSize:       scanConfiguration.batchSize,
		DetectProjects:  !scanConfiguration.noProjects,
		Progress: func(processed, total int) {
			status.Print(fmt.Sprintf("scanning: %d/%d files", processed, total))
		},
	}, logger)
	status.Clear()
	if err != nil {
		return errors.Wrap(err, "scan failed")
	}

	logger.Println("scan complete:", result.TotalFiles, "files,", humanize.Bytes(uint64(result.TotalSize)), "in", result.TotalBatches, "batches,", result.Errors, "errors")

	return nil
}

var scanCommand = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a file system root and write a cataloged output tree",
	Args:  cobra.ExactArgs(1),
	RunE:  scanMain,
}

var scanConfiguration struct {
	// help indicates whether to show command-line help.
	help bool
	// name is the human-readable source name; defaults to the root's base name.
	name string
	// sourceType is the Source.Type value (DISK, PARTITION, CLOUD, NETWORK, ARCHIVE).
	sourceType string
	// outputDirectory is where the numbered batch files and summary.json are written.
	outputDirectory string
	// configPath is an optional path to a scanner configuration file.
	configPath string
	// threads is the worker pool size for hashing.
	threads int
	// batchSize is the number of files flushed per output batch file.
	batchSize int
	// noProjects disables the project detector chain pass.
	noProjects bool
	// profile, if non-empty, is the base name for CPU/heap profile output
	// files written for the duration of the scan.
	profile string
}

func init() {
	flags := scanCommand.Flags()
	flags.BoolVarP(&scanConfiguration.help, "help", "h", false, "Show help information")
	flags.StringVar(&scanConfiguration.name, "name", "", "Human-readable source name (defaults to the root directory name)")
	flags.StringVar(&scanConfiguration.sourceType, "type", "DISK", "Source type (DISK, PARTITION, CLOUD, NETWORK, ARCHIVE)")
	flags.StringVarP(&scanConfiguration.outputDirectory, "output", "o", "", "Directory to write the output tree to (defaults to ./<sourceId>)")
	flags.StringVarP(&scanConfiguration.configPath, "config", "c", "", "Path to a scanner configuration file")
	flags.IntVarP(&scanConfiguration.threads, "threads", "t", 0, "Number of worker threads (defaults to runtime.NumCPU())")
	flags.IntVar(&scanConfiguration.batchSize, "batch-size", 0, "Number of files per output batch (defaults to the configuration value)")
	flags.BoolVar(&scanConfiguration.noProjects, "no-projects", false, "Skip the project detector chain")
	flags.StringVar(&scanConfiguration.profile, "profile", "", "Write CPU/heap profiles with this base name")
}
