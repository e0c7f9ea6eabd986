package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aqlanhadi/slipscan/extractor"
	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/scanner"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)))
}

func TestDefaultConfig_Scan(t *testing.T) {
	setupTestConfig(t)

	assert.Equal(t, scanner.Config{
		Concurrency: 2,
		Pacing:      4 * time.Second,
		MaxRetries:  3,
		RetryDelay:  2 * time.Second,
	}, scanConfig())
	assert.Equal(t, "8080", viper.GetString("server.port"))
	assert.Equal(t, "gemini-2.5-flash", viper.GetString("gemini.model"))
}

func TestDefaultConfig_Registry(t *testing.T) {
	setupTestConfig(t)

	registry, err := loadRegistry()
	require.NoError(t, err)

	assert.Equal(t, extractor.DefaultRegistry().Dialects(), registry.Dialects())
	assert.Equal(t, common.DialectKBank, registry.Detect("K+\nโอนเงินสำเร็จ"))
	assert.Equal(t, common.DialectBangkokBank, registry.Detect("Bualuang mBanking"))
}

func TestDefaultConfig_ClientsUnconfigured(t *testing.T) {
	setupTestConfig(t)

	assert.False(t, newSlipOK().Configured())

	g, err := newGemini(context.Background())
	require.NoError(t, err)
	assert.Nil(t, g)
}
