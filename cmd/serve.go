package cmd

import (
	"context"
	"os"
	"time"

	"github.com/aqlanhadi/slipscan/api"
	"github.com/aqlanhadi/slipscan/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long:  `Starts the HTTP API server that accepts slip text or files and returns extracted fields as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		cfg := api.DefaultConfig()
		cfg.Port = ":" + viper.GetString("server.port")
		cfg.Logger = logger.NewWithWriter(os.Stdout, logger.Level(verbose))

		server := api.New(cfg, registry)

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				cfg.Logger.Error().Err(err).Msg("shutdown")
			}
		}()

		return server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to run the API server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
