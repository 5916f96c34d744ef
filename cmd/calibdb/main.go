package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/calibdb/pkg/calibdb"
)

var (
	logLevel   = "info"
	configPath = defaultConfigPath()

	folderFlag   string
	remoteFlag   string
	timezoneFlag string
)

var (
	gQuery        = "Query:"
	gConfig       = "Configuration:"
	commandGroups = []string{
		gQuery,
		gConfig,
	}
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "calibdb.json"
	}
	return filepath.Join(dir, "calibdb", "config.json")
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, calibdb.ErrConfiguration):
		fmt.Fprintln(os.Stderr, "\nError: no calibration index folder configured")
		fmt.Fprintln(os.Stderr, "  - Pass '--folder', or save one with 'calibdb config set --folder'")
	case errors.Is(err, calibdb.ErrInvalidRepository):
		fmt.Fprintln(os.Stderr, "\nError: the folder is not a git working copy")
		fmt.Fprintln(os.Stderr, "  - Point '--folder' at a clone of the calibration repository")
		fmt.Fprintln(os.Stderr, "  - Or point it at a path that does not exist yet and pass '--remote' to clone one")
	case errors.Is(err, calibdb.ErrNotFound):
		fmt.Fprintln(os.Stderr, "\nError: not found")
		fmt.Fprintln(os.Stderr, "  - If the folder does not exist yet, pass '--remote' to clone it")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		handleCmdError(err)
		stop()
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibdb",
		Short: "calibdb looks up instrument calibration records",
		Long: `calibdb looks up instrument calibration records.

It reads the calib_db.csv table of a calibration repository and resolves the
record that applies to a calibration step at a given date, optionally for a
channel and a filter.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVarP(&folderFlag, "folder", "f", "", "calibration index folder (overrides config)")
	globalFlags.StringVarP(&remoteFlag, "remote", "r", "", "repository to clone when the folder does not exist (overrides config)")
	globalFlags.StringVar(&timezoneFlag, "timezone", "", "time zone of table dates, e.g. UTC or Europe/Paris (overrides config)")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewVersionCommand(),
		NewResolveCommand(),
		NewInfoCommand(),
		NewListCommand(),
		NewConfigCommand(),
	)

	return cmd
}
