package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KIOSK_OPENAI_API_KEY", "sk-test")

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StrategyAuto, s.ModelStrategy)
	assert.Equal(t, "http://localhost:11434", s.OllamaBaseURL)
	assert.Equal(t, 30*time.Second, s.RequestTimeout)
	assert.Equal(t, 0.1, s.TaxRate)
	assert.Equal(t, 512, s.HistoryCapacity)
	assert.Equal(t, 8080, s.Port)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("KIOSK_OPENAI_API_KEY", "sk-test")

	path := filepath.Join(t.TempDir(), "kiosk.yaml")
	doc := `model_strategy: cloud_only
tax_rate: 0.2
port: 9999
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StrategyCloudOnly, s.ModelStrategy)
	assert.Equal(t, 0.2, s.TaxRate)
	assert.Equal(t, 9999, s.Port)
}

func TestValidate(t *testing.T) {
	base := Settings{
		OpenAIAPIKey:    "sk-test",
		ModelStrategy:   StrategyAuto,
		RequestTimeout:  time.Second,
		TaxRate:         0.1,
		HistoryCapacity: 10,
	}
	require.NoError(t, base.Validate())

	missingKey := base
	missingKey.OpenAIAPIKey = ""
	assert.Error(t, missingKey.Validate())

	// local_only with the local model enabled does not need cloud credentials.
	localOnly := base
	localOnly.OpenAIAPIKey = ""
	localOnly.ModelStrategy = StrategyLocalOnly
	localOnly.EnableLocalModel = true
	assert.NoError(t, localOnly.Validate())

	localOff := localOnly
	localOff.EnableLocalModel = false
	assert.Error(t, localOff.Validate())

	badStrategy := base
	badStrategy.ModelStrategy = "hybrid"
	assert.Error(t, badStrategy.Validate())

	badTax := base
	badTax.TaxRate = 1.5
	assert.Error(t, badTax.Validate())
}
