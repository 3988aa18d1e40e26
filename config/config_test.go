package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matheuscscp/splitynab/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSyncFromYAMLAndEnv(t *testing.T) {
	confFile := writeFile(t, "config.yml", `
logLevel: debug
splitwise:
  consumerKey: yaml-key
  apiKey: yaml-api-key
ynab:
  budgetID: budget
  accountID: account
telegram:
  chatID: 1
checkpointFile: state.yml
`)
	envFile := writeFile(t, ".env", "sw_consumer_secret=dotenv-secret\nynab_api_key=dotenv-token\n")
	t.Setenv(config.ConfFileEnv, confFile)
	t.Setenv(config.EnvFileEnv, envFile)
	t.Setenv(config.SplitwiseAPIKeyEnv, "env-api-key")
	t.Setenv(config.TelegramChatIDEnv, "42")
	t.Setenv(config.SplitwiseConsumerSecretEnv, "")
	t.Setenv(config.YNABTokenEnv, "")
	os.Unsetenv(config.SplitwiseConsumerSecretEnv)
	os.Unsetenv(config.YNABTokenEnv)

	var conf config.Sync
	require.NoError(t, config.Load(&conf))

	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, "yaml-key", conf.Splitwise.ConsumerKey)
	assert.Equal(t, "dotenv-secret", conf.Splitwise.ConsumerSecret)
	assert.Equal(t, "env-api-key", conf.Splitwise.APIKey)
	assert.Equal(t, config.DefaultSplitwiseBaseURL, conf.Splitwise.BaseURL)
	assert.Equal(t, config.DefaultSplitwiseLimit, conf.Splitwise.Limit)
	assert.Equal(t, "dotenv-token", conf.YNAB.Token)
	assert.Equal(t, config.DefaultYNABBaseURL, conf.YNAB.BaseURL)
	assert.Equal(t, int64(42), conf.Telegram.ChatID)
	assert.Equal(t, "state.yml", conf.CheckpointFile)
	assert.NoError(t, conf.Splitwise.Validate())
	assert.NoError(t, conf.YNAB.Validate())
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Setenv(config.ConfFileEnv, filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv(config.EnvFileEnv, "")

	var conf config.Sync
	assert.Error(t, config.Load(&conf))
}

func TestLoadInvalidChatID(t *testing.T) {
	t.Setenv(config.ConfFileEnv, writeFile(t, "config.yml", "{}"))
	t.Setenv(config.EnvFileEnv, "")
	t.Setenv(config.TelegramChatIDEnv, "not-a-number")

	var conf config.Sync
	assert.Error(t, config.Load(&conf))
}

func TestLoadTriggerDefaults(t *testing.T) {
	t.Setenv(config.ConfFileEnv, writeFile(t, "config.yml", "projectID: my-project\n"))
	t.Setenv(config.EnvFileEnv, "")
	t.Setenv(config.JWTSecretEnv, "secret")

	var conf config.Trigger
	require.NoError(t, config.Load(&conf))
	assert.Equal(t, "my-project", conf.ProjectID)
	assert.Equal(t, "splitynab-sync", conf.SyncTopicID)
	assert.Equal(t, "secret", conf.JWTSecret)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&config.Splitwise{}).Validate(), config.ErrMissingSplitwiseAPIKey)
	assert.ErrorIs(t, (&config.YNAB{}).Validate(), config.ErrMissingYNABToken)
	assert.ErrorIs(t, (&config.YNAB{Token: "t", BudgetID: "b"}).Validate(), config.ErrMissingYNABBudget)
}
