package cmd

import (
	"context"

	"github.com/aqlanhadi/slipscan/integrations/gemini"
	"github.com/aqlanhadi/slipscan/integrations/slipok"
	"github.com/aqlanhadi/slipscan/scanner"
	"github.com/spf13/viper"
)

func newSlipOK() *slipok.Client {
	return slipok.New(slipok.Config{
		BaseURL:       viper.GetString("slipok.base_url"),
		Branch:        viper.GetString("slipok.branch"),
		Authorization: viper.GetString("slipok.authorization"),
		MaxRetries:    viper.GetInt("slipok.max_retries"),
	})
}

// newGemini returns nil when no API key is configured.
func newGemini(ctx context.Context) (*gemini.Client, error) {
	key := viper.GetString("gemini.api_key")
	if key == "" {
		return nil, nil
	}
	return gemini.New(ctx, key, viper.GetString("gemini.model"))
}

func scanConfig() scanner.Config {
	return scanner.Config{
		Concurrency: viper.GetInt("scan.concurrency"),
		Pacing:      viper.GetDuration("scan.pacing"),
		MaxRetries:  viper.GetInt("scan.max_retries"),
		RetryDelay:  viper.GetDuration("scan.retry_delay"),
	}
}
