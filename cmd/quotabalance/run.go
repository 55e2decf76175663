package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"quotabalance/internal/balance"
	"quotabalance/internal/config"
	"quotabalance/internal/core"
	"quotabalance/internal/history"
	"quotabalance/internal/providers"
	"quotabalance/internal/report"
)

type runOptions struct {
	timeoutSeconds int
	noHistory      bool
	pretty         bool
}

// runOnce executes one full pass: collect quota documents for every
// configured account, balance them, emit JSON on stdout and a summary on
// stderr, and record the run.
func runOnce(configPath string, opts runOptions) error {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	if opts.timeoutSeconds > 0 {
		timeout = time.Duration(opts.timeoutSeconds) * time.Second
	}

	engine := core.NewEngine(timeout)
	for _, p := range providers.AllProviders() {
		engine.RegisterProvider(p)
	}

	docs := engine.Collect(context.Background(), cfg.Accounts)
	log.Debugf("collected %d/%d quota documents", len(docs), len(cfg.Accounts))

	balanced := balance.Run(docs)

	out, err := encodeBalanced(balanced, opts.pretty || cfg.Output.Pretty)
	if err != nil {
		return fmt.Errorf("encoding balanced map: %w", err)
	}
	fmt.Println(string(out))

	report.Render(summaryWriter(), balanced, report.Thresholds{
		Warn: cfg.Output.WarnThreshold,
		Crit: cfg.Output.CritThreshold,
	})

	if cfg.History.Enabled && !opts.noHistory {
		if err := recordRun(cfg, balanced); err != nil {
			log.Warnf("history: %v", err)
		}
	}

	return nil
}

// encodeBalanced serializes the map with sorted keys (encoding/json sorts
// map keys), so identical inputs produce byte-identical output.
func encodeBalanced(balanced balance.BalancedQuotaMap, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(balanced, "", "  ")
	}
	return json.Marshal(balanced)
}

func recordRun(cfg config.Config, balanced balance.BalancedQuotaMap) error {
	store, err := history.Open(config.HistoryPath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.RecordRun(time.Now(), balanced)
	if err != nil {
		return err
	}
	log.Debugf("recorded run %s", runID)
	return nil
}
