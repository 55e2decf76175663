package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"quotabalance/internal/config"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if os.Getenv("QUOTABALANCE_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	var opts runOptions
	configPath := config.ConfigPath()

	root := cobra.Command{
		Use:   "quotabalance",
		Short: "Consolidate remaining AI model quota across provider accounts into one balanced value per model family.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runOnce(configPath, opts)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "path to the settings file")
	root.Flags().IntVar(&opts.timeoutSeconds, "timeout", 0, "per-account fetch timeout in seconds (0 = from config)")
	root.Flags().BoolVar(&opts.noHistory, "no-history", false, "skip recording this run into the history database")
	root.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")

	root.AddCommand(newWatchCommand(&configPath))
	root.AddCommand(newHistoryCommand(&configPath))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// summaryWriter picks the destination for the human-readable table. The
// JSON result always goes to stdout; the summary can be silenced for
// scripted use.
func summaryWriter() io.Writer {
	if os.Getenv("QUOTABALANCE_NO_SUMMARY") != "" {
		return io.Discard
	}
	return os.Stderr
}
