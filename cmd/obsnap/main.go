// Command obsnap ingests per-symbol order event feeds into the snapshot
// store, and answers time-range queries against it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "obsnap",
		Short: "Order book snapshot ingestion and query engine",
		RunE:  runIngest,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "obsnap.yaml", "path to configuration file")
	root.AddCommand(newQueryCmd())
	return root
}
