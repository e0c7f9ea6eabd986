package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aqlanhadi/slipscan/extractor"
	"github.com/aqlanhadi/slipscan/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default configuration. A .slipscan.yaml in the working or home
// directory is merged on top of it.
const defaultConfigYAML = `
dialects:
  KRUNGTHAI:
    markers: ["Krungthai", "กรุงไทย"]
  KBANK:
    markers: ["K+\n"]
  SCB:
    markers: ["SCB"]
  MAKE:
    markers: ["maKe", "make", "by KBank"]
  BANGKOK_BANK:
    markers: ["Bangkok Bank", "Bualuang", "ธนาคารกรุงเทพ"]
slipok:
  base_url: https://api.slipok.com/api/line/apikey
  branch: ""
  authorization: ""
  max_retries: 3
gemini:
  api_key: ""
  model: gemini-2.5-flash
scan:
  concurrency: 2
  pacing: 4s
  max_retries: 3
  retry_delay: 2s
  seen_file: .slipscan-seen.json
server:
  port: "8080"
`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "slipscan [file]",
		Short: "Extract transfer details from Thai bank slips",
		Long: `slipscan reads OCR text, e-slip PDFs and exports of Thai bank transfer
slips and extracts the bank, date, sender, receiver, amount and reference id.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log := logger.New(logger.Level(verbose))
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				viper.Set("target", args[0])
				return runExtract(extractCmd, []string{})
			}
			return cmd.Help()
		},
		SilenceUsage: true,
	}
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.slipscan.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initConfig() {
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading embedded configuration: %v\n", err)
		os.Exit(1)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".slipscan")
	}

	viper.SetEnvPrefix("SLIPSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

func loadRegistry() (*extractor.Registry, error) {
	return extractor.LoadRegistry(viper.GetViper())
}
