package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quotabalance/internal/config"
	"quotabalance/internal/history"
)

func newHistoryCommand(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show balanced quota maps recorded by previous runs, newest first.",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadFrom(*configPath)
			if err != nil {
				return err
			}

			store, err := history.Open(config.HistoryPath(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no recorded runs")
				return nil
			}

			for _, run := range runs {
				balanced, err := json.Marshal(run.Balanced)
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s  %s\n", run.CreatedAt.Local().Format(time.RFC3339), run.ID, balanced)
			}
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to show")
	return cmd
}
