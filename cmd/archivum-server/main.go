package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/archivum/archivum/cmd"
	"github.com/archivum/archivum/pkg/api/handlers"
	"github.com/archivum/archivum/pkg/archivum"
	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/configuration"
	"github.com/archivum/archivum/pkg/dedup"
	"github.com/archivum/archivum/pkg/foldertree"
	"github.com/archivum/archivum/pkg/ingest"
	"github.com/archivum/archivum/pkg/lock"
	"github.com/archivum/archivum/pkg/logging"
	"github.com/archivum/archivum/pkg/zone"
)

func serveMain(command *cobra.Command, arguments []string) error {
	if serveConfiguration.logLevel != "" {
		level, ok := logging.NameToLevel(serveConfiguration.logLevel)
		if !ok {
			return fmt.Errorf("invalid log level: %s", serveConfiguration.logLevel)
		}
		logging.SetLevel(level)
	}

	logger := logging.RootLogger.Sublogger("server")

	config, err := configuration.LoadServer(serveConfiguration.configPath)
	if err != nil {
		return errors.Wrap(err, "unable to load configuration")
	}

	store, err := catalog.Open(config.Database.DSN, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err != nil {
		return errors.Wrap(err, "unable to open catalog store")
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		return errors.Wrap(err, "unable to migrate catalog store")
	}

	locks := lock.NewKeyedMutex()
	dedupEngine := dedup.New(store, locks, logger.Sublogger("dedup"))
	ingestService := ingest.New(store, dedupEngine, locks)
	zones := zone.NewService(foldertree.ZoneStore{Repo: store.Zones})
	tree := foldertree.NewBuilder(store.Files, zones)

	server := handlers.NewServer(store, ingestService, zones, tree, logger.Sublogger("api"))
	requestTimeout := time.Duration(config.RequestTimeout)

	httpServer := &http.Server{
		Addr:         config.ListenAddress,
		Handler:      server.Router(requestTimeout),
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Println(fmt.Sprintf("archivum-server %s listening on %s", archivum.Version, config.ListenAddress))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, cmd.TerminationSignals...)

	select {
	case err := <-errs:
		return errors.Wrap(err, "server failed")
	case <-signals:
		logger.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

var serveCommand = &cobra.Command{
	Use:   "archivum-server",
	Short: "Run the Archivum catalog server",
	Args:  cmd.DisallowArguments,
	RunE:  serveMain,
}

var serveConfiguration struct {
	// help indicates whether to show command-line help.
	help bool
	// configPath is an optional path to a server configuration file.
	configPath string
	// logLevel, if set, overrides ARCHIVUM_LOG_LEVEL for this invocation.
	// One of disabled, error, warn, info, debug, trace.
	logLevel string
}

func init() {
	flags := serveCommand.Flags()
	flags.BoolVarP(&serveConfiguration.help, "help", "h", false, "Show help information")
	flags.StringVarP(&serveConfiguration.configPath, "config", "c", "", "Path to a server configuration file")
	flags.StringVar(&serveConfiguration.logLevel, "log-level", "", "Override the log level (disabled, error, warn, info, debug, trace)")
}

func main() {
	if err := serveCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
