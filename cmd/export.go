package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/aqlanhadi/slipscan/integrations/sink"
	"github.com/aqlanhadi/slipscan/ledger"
	"github.com/aqlanhadi/slipscan/logger"
	"github.com/spf13/cobra"
)

var (
	exportFrom   string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored transactions as CSV",
	Long: `Writes every transaction in a store as CSV with the columns
Date,Time,Type,Category,Amount,Note,Sender,Receiver,Bank,RefID.

Only jsonfile: and postgres sinks can be listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := sink.Open(ctx, exportFrom)
		if err != nil {
			return fmt.Errorf("open sink: %w", err)
		}
		defer store.Close()

		txns, err := sink.List(ctx, store)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if err := ledger.WriteCSV(w, txns); err != nil {
			return err
		}
		log := logger.FromContext(ctx)
		log.Info().Int("transactions", len(txns)).Msg("export complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Sink to read from (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "CSV file to write, - for stdout")

	exportCmd.MarkFlagRequired("from")
}
