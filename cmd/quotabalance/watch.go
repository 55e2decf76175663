package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const watchDebounce = 500 * time.Millisecond

func newWatchCommand(configPath *string) *cobra.Command {
	var opts runOptions
	var intervalSeconds int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the balance pass whenever the settings file changes, and on a fixed interval.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runWatch(*configPath, opts, time.Duration(intervalSeconds)*time.Second)
		},
		SilenceUsage: true,
	}
	cmd.Flags().IntVar(&intervalSeconds, "interval", 300, "re-run interval in seconds (0 disables the timer)")
	cmd.Flags().IntVar(&opts.timeoutSeconds, "timeout", 0, "per-account fetch timeout in seconds (0 = from config)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "skip recording runs into the history database")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func runWatch(configPath string, opts runOptions, interval time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace the file on save, which drops
	// a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("watching config dir: %w", err)
	}

	if err := runOnce(configPath, opts); err != nil {
		log.Warnf("initial pass: %v", err)
	}

	var ticker *time.Ticker
	var tick <-chan time.Time
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var debounce *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(configPath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			pending = debounce.C

		case <-pending:
			pending = nil
			log.Debug("settings changed, re-running balance pass")
			if err := runOnce(configPath, opts); err != nil {
				log.Warnf("balance pass: %v", err)
			}

		case <-tick:
			if err := runOnce(configPath, opts); err != nil {
				log.Warnf("balance pass: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watcher: %v", err)
		}
	}
}
