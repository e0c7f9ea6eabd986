package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/integrations/sink"
	"github.com/aqlanhadi/slipscan/ledger"
	"github.com/aqlanhadi/slipscan/logger"
	"github.com/aqlanhadi/slipscan/scanner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	scanDir string
	scanOut string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a folder of slip images",
	Long: `Scans every slip in a folder. Files sharing a base name form one slip:
an image (.jpg, .png, .webp, .heic), its decoded QR payload (.qr) and its
OCR text (.txt).

Slips with a QR payload are verified with SlipOK while quota lasts; the
rest are read by the Gemini vision model, and OCR text is the last resort.
Processed slips are remembered in scan.seen_file and skipped next time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		var verifier scanner.Verifier
		if c := newSlipOK(); c.Configured() {
			verifier = c
		} else {
			log.Info().Msg("slipok not configured, skipping verification")
		}

		var vision scanner.Vision
		g, err := newGemini(ctx)
		if err != nil {
			return err
		}
		if g != nil {
			vision = g
		} else {
			log.Info().Msg("gemini not configured, skipping vision extraction")
		}

		seen, err := scanner.LoadSeen(viper.GetString("scan.seen_file"))
		if err != nil {
			return fmt.Errorf("load seen ledger: %w", err)
		}

		items, err := scanner.LoadItems(scanDir)
		if err != nil {
			return err
		}

		s := scanner.New(registry, verifier, vision, seen, scanConfig())
		report, err := s.Batch(ctx, items, nil)
		if saveErr := seen.Save(); saveErr != nil {
			log.Warn().Err(saveErr).Msg("could not save seen ledger")
		}
		if err != nil {
			return err
		}

		if scanOut == "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report.Results); err != nil {
				return err
			}
		} else {
			if err := storeScanned(cmd, report); err != nil {
				return err
			}
		}

		fmt.Fprintf(os.Stderr, "\nComplete: %d processed, %d skipped, %d failed\n",
			len(report.Results), report.Skipped, len(report.Failed))
		return nil
	},
}

func storeScanned(cmd *cobra.Command, report *scanner.Report) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	var txns []common.Transaction
	for _, res := range report.Results {
		tx, err := ledger.Build(res.Fields, ledger.SourceScan)
		if err != nil {
			log.Warn().Str("item", res.ItemID).
				Str("problems", strings.Join(common.Problems(err), ", ")).
				Msg("not stored")
			continue
		}
		txns = append(txns, tx)
	}
	if len(txns) == 0 {
		return nil
	}

	store, err := sink.Open(ctx, scanOut)
	if err != nil {
		return fmt.Errorf("open sink: %w", err)
	}
	defer store.Close()
	return store.Write(ctx, txns)
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanDir, "folder", "f", ".", "Folder of slips to scan")
	scanCmd.Flags().StringVar(&scanOut, "out", "", "Sink to store transactions in; prints JSON when empty")
}
