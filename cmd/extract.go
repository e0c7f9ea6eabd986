package cmd

import (
	"encoding/json"
	"os"

	"github.com/aqlanhadi/slipscan/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var extractPretty bool

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extracts slip(s)",
	Long: `Extracts a given slip file or every supported file in a directory.
OCR text (.txt), e-slip PDFs (.pdf), pre-structured field maps (.json)
and CSV exports (.csv) are read; results are printed as JSON.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	target := viper.GetString("target")

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	results, err := registry.ProcessPath(ctx, target)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Debug().Int("slips", len(results)).Msg("extraction finished")

	enc := json.NewEncoder(os.Stdout)
	if extractPretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(results)
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("file", "f", ".", "File or folder in which slipscan will look for slips")
	extractCmd.Flags().BoolVar(&extractPretty, "pretty", false, "Indent the JSON output")
	viper.BindPFlag("target", extractCmd.Flags().Lookup("file"))
}
