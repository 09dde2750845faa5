// cmd/trialctl/main.go
// Previews or imports a trial results workbook from the command line.
//
// Usage:
//
//	go run ./cmd/trialctl preview results.xlsx
//	go run ./cmd/trialctl import results.xlsx --secretary admin [--trial-id 12]
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/padraicbc/trialapi/config"
	"github.com/padraicbc/trialapi/importer"
	"github.com/padraicbc/trialapi/judges"
	applog "github.com/padraicbc/trialapi/logger"
	"github.com/padraicbc/trialapi/workbook"
)

func main() {
	if err := rootCommand(config.LoadCLI()).Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "trialctl",
		Short:        "Preview and import trial results workbooks",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.JudgeRosterFile, "roster", cfg.JudgeRosterFile, "judge roster YAML (default: bundled roster)")
	root.PersistentFlags().StringVar(&cfg.Timezone, "tz", cfg.Timezone, "timezone trial dates are read in")
	root.PersistentFlags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging")

	root.AddCommand(previewCommand(cfg), importCommand(cfg))
	return root
}

// newImporter builds an importer without a store; importCommand adds one.
func newImporter(cfg *config.Config, store importer.Store, reg importer.Registry) (*importer.Importer, *zap.Logger, error) {
	log, err := applog.New(cfg.Debug, "trialctl")
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	roster, err := judges.Load(cfg.JudgeRosterFile)
	if err != nil {
		return nil, nil, err
	}
	im := importer.New(store, reg, roster,
		importer.WithLogger(log),
		importer.WithLocation(loc),
	)
	return im, log, nil
}

func openWorkbook(path string) (*workbook.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	wb, err := workbook.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wb, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
