package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantsnap/obsnap/internal/config"
	"github.com/quantsnap/obsnap/internal/ingest"
	"github.com/quantsnap/obsnap/internal/logging"
	"github.com/quantsnap/obsnap/internal/progress"
	"github.com/quantsnap/obsnap/internal/store"
)

// runIngest is the root command's action: ingest every configured source,
// printing a progress readout while workers run and the elapsed time when
// they finish.
func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st := store.New(cfg.StoreDir, logger)
	counter := &progress.Counter{}
	coordinator := ingest.NewCoordinator(st, counter, logger)

	sources := make([]ingest.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, ingest.Source{Symbol: s.Symbol, Path: s.Path})
	}

	done := make(chan error, 1)
	start := time.Now()
	go func() { done <- coordinator.Run(sources) }()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			fmt.Fprintf(cmd.OutOrStdout(), "\ningestion complete in %s\n", time.Since(start).Round(time.Millisecond))
			return err
		case <-ticker.C:
			fmt.Fprintf(cmd.OutOrStdout(), "\rprogress: %.1f%%", counter.Fraction()*100)
		}
	}
}
