package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantsnap/obsnap/internal/config"
	"github.com/quantsnap/obsnap/internal/logging"
	"github.com/quantsnap/obsnap/internal/query"
	"github.com/quantsnap/obsnap/internal/render"
	"github.com/quantsnap/obsnap/internal/store"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <symbols> <start_epoch> <end_epoch> [<fields>]",
		Short: "Run a time-range query against the snapshot store",
		Args:  cobra.RangeArgs(3, 4),
		RunE:  runQuery,
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	start, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid start_epoch %q: %w", args[1], err)
	}
	end, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid end_epoch %q: %w", args[2], err)
	}

	var symbols []string
	if args[0] != "ALL" {
		symbols = strings.Split(args[0], ",")
	}

	var fields []string
	if len(args) == 4 {
		fields = strings.Split(args[3], ",")
		if err := render.ValidateFields(fields); err != nil {
			return err
		}
	}

	st := store.New(cfg.StoreDir, logger)
	engine := query.New(st, cfg.Symbols, logger)

	records, err := engine.Query(query.Criteria{StartEpoch: start, EndEpoch: end, Symbols: symbols})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, rec := range records {
		if fields == nil {
			fmt.Fprint(out, render.Grouped(rec))
			continue
		}
		line, err := render.Selective(rec, fields)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
