package main

import (
	"github.com/spf13/cobra"

	"github.com/padraicbc/trialapi/config"
	bundb "github.com/padraicbc/trialapi/db"
	"github.com/padraicbc/trialapi/importer"
	"github.com/padraicbc/trialapi/registry"
)

func importCommand(cfg *config.Config) *cobra.Command {
	var opts importer.Options
	cmd := &cobra.Command{
		Use:   "import [workbook.xlsx]",
		Short: "Import a workbook into the configured database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireDB(); err != nil {
				return err
			}
			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			db, err := bundb.Open(cmd.Context(), cfg.PostgresDSN(), cfg.Debug)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := bundb.CreateTables(cmd.Context(), db); err != nil {
				return err
			}

			im, log, err := newImporter(cfg, bundb.NewTrialStore(db), registry.New(db, cfg.RegistryCacheTTL))
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			rep, err := im.Import(cmd.Context(), wb, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVar(&opts.Secretary, "secretary", "", "name recorded as the trial secretary")
	cmd.Flags().Int64Var(&opts.TrialID, "trial-id", 0, "import into this existing trial")
	_ = cmd.MarkFlagRequired("secretary")
	return cmd
}
