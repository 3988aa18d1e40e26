package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// Sync configures the Splitwise to YNAB sync.
	Sync struct {
		LogLevel         string    `yaml:"logLevel"`
		Splitwise        Splitwise `yaml:"splitwise"`
		YNAB             YNAB      `yaml:"ynab"`
		Telegram         Telegram  `yaml:"telegram"`
		CheckpointBucket string    `yaml:"checkpointBucket"`
		CheckpointFile   string    `yaml:"checkpointFile"`
		ProjectID        string    `yaml:"projectID"`
		ReportTopicID    string    `yaml:"reportTopicID"`
	}

	// Trigger configures the HTTP function that requests a sync.
	Trigger struct {
		LogLevel    string `yaml:"logLevel"`
		ProjectID   string `yaml:"projectID"`
		SyncTopicID string `yaml:"syncTopicID"`
		JWTSecretID string `yaml:"jwtSecretID"`
		JWTSecret   string `yaml:"jwtSecret"`
	}

	// Splitwise holds the Splitwise API credentials.
	Splitwise struct {
		ConsumerKey    string `yaml:"consumerKey"`
		ConsumerSecret string `yaml:"consumerSecret"`
		APIKey         string `yaml:"apiKey"`
		APIKeySecretID string `yaml:"apiKeySecretID"`
		BaseURL        string `yaml:"baseURL"`
		Limit          int    `yaml:"limit"`
	}

	// YNAB ...
	YNAB struct {
		Token         string `yaml:"token"`
		TokenSecretID string `yaml:"tokenSecretID"`
		BudgetID      string `yaml:"budgetID"`
		AccountID     string `yaml:"accountID"`
		BaseURL       string `yaml:"baseURL"`
	}

	// Telegram ...
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chatID"`
	}

	loadable interface {
		applyEnv() error
		setDefaults()
	}
)

const (
	ConfFileEnv = "CONF_FILE"
	EnvFileEnv  = "ENV_FILE"

	SplitwiseConsumerKeyEnv    = "sw_consumer_key"
	SplitwiseConsumerSecretEnv = "sw_consumer_secret"
	SplitwiseAPIKeyEnv         = "sw_api_key"
	YNABTokenEnv               = "ynab_api_key"
	YNABBudgetIDEnv            = "ynab_budget_id"
	YNABAccountIDEnv           = "ynab_account_id"
	TelegramTokenEnv           = "telegram_token"
	TelegramChatIDEnv          = "telegram_chat_id"
	JWTSecretEnv               = "JWT_SECRET"
	LogLevelEnv                = "LOG_LEVEL"

	DefaultSplitwiseBaseURL = "https://secure.splitwise.com/api/v3.0"
	DefaultSplitwiseLimit   = 100
	DefaultYNABBaseURL      = "https://api.ynab.com/v1"

	defaultConfFile = "config.yml"
	defaultEnvFile  = ".env"
)

var (
	// ErrMissingSplitwiseAPIKey ...
	ErrMissingSplitwiseAPIKey = errors.New("splitwise api key is not configured")

	// ErrMissingYNABToken ...
	ErrMissingYNABToken = errors.New("ynab token is not configured")

	// ErrMissingYNABBudget ...
	ErrMissingYNABBudget = errors.New("ynab budget id and account id must be configured")
)

// Load fills conf from the local settings files and the process environment.
//
// Variables from the .env file (ENV_FILE) never override the process environment. The
// yaml file (CONF_FILE, default config.yml) is optional unless named explicitly, and
// environment variables take precedence over its values.
func Load(conf loadable) error {
	if err := loadEnvFile(); err != nil {
		return err
	}

	confFile, explicit := os.LookupEnv(ConfFileEnv)
	if !explicit || confFile == "" {
		confFile, explicit = defaultConfFile, false
	}
	b, err := os.ReadFile(confFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, conf); err != nil {
			return fmt.Errorf("error unmarshaling config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return fmt.Errorf("error reading config file '%s': %w", confFile, err)
	}

	if err := conf.applyEnv(); err != nil {
		return err
	}
	conf.setDefaults()
	return nil
}

func loadEnvFile() error {
	envFile, explicit := os.LookupEnv(EnvFileEnv)
	if !explicit || envFile == "" {
		envFile, explicit = defaultEnvFile, false
	}
	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("error reading env file '%s': %w", envFile, err)
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("error loading env file '%s': %w", envFile, err)
	}
	return nil
}

func (s *Sync) applyEnv() error {
	setFromEnv(&s.LogLevel, LogLevelEnv)
	s.Splitwise.applyEnv()
	setFromEnv(&s.YNAB.Token, YNABTokenEnv)
	setFromEnv(&s.YNAB.BudgetID, YNABBudgetIDEnv)
	setFromEnv(&s.YNAB.AccountID, YNABAccountIDEnv)
	setFromEnv(&s.Telegram.Token, TelegramTokenEnv)
	if v, ok := os.LookupEnv(TelegramChatIDEnv); ok && v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("error parsing %s env to int64: %w", TelegramChatIDEnv, err)
		}
		s.Telegram.ChatID = chatID
	}
	return nil
}

func (s *Sync) setDefaults() {
	s.Splitwise.setDefaults()
	if s.YNAB.BaseURL == "" {
		s.YNAB.BaseURL = DefaultYNABBaseURL
	}
}

func (t *Trigger) applyEnv() error {
	setFromEnv(&t.LogLevel, LogLevelEnv)
	setFromEnv(&t.JWTSecret, JWTSecretEnv)
	return nil
}

func (t *Trigger) setDefaults() {
	if t.SyncTopicID == "" {
		t.SyncTopicID = "splitynab-sync"
	}
}

func (s *Splitwise) applyEnv() {
	setFromEnv(&s.ConsumerKey, SplitwiseConsumerKeyEnv)
	setFromEnv(&s.ConsumerSecret, SplitwiseConsumerSecretEnv)
	setFromEnv(&s.APIKey, SplitwiseAPIKeyEnv)
}

func (s *Splitwise) setDefaults() {
	if s.BaseURL == "" {
		s.BaseURL = DefaultSplitwiseBaseURL
	}
	if s.Limit <= 0 {
		s.Limit = DefaultSplitwiseLimit
	}
}

// Validate ...
func (s *Splitwise) Validate() error {
	if s.APIKey == "" {
		return ErrMissingSplitwiseAPIKey
	}
	return nil
}

// Validate ...
func (y *YNAB) Validate() error {
	if y.Token == "" {
		return ErrMissingYNABToken
	}
	if y.BudgetID == "" || y.AccountID == "" {
		return ErrMissingYNABBudget
	}
	return nil
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
