package main

import (
	"github.com/spf13/cobra"

	"github.com/padraicbc/trialapi/config"
)

func previewCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [workbook.xlsx]",
		Short: "Summarize a workbook without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im, log, err := newImporter(cfg, nil, nil)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			summary, err := im.Preview(cmd.Context(), wb)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}
}
