package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingToken is returned when the access token file is empty.
var ErrMissingToken = errors.New("access token file is empty; run `dailyspend link` first")

// Config represents the credentials file. JSON files parse as well.
type Config struct {
	Plaid     PlaidConfig  `yaml:"plaid"`
	Twilio    TwilioConfig `yaml:"twilio,omitempty"`
	Email     EmailConfig  `yaml:"email,omitempty"`
	AccountID string       `yaml:"account_id,omitempty"`
	Git       GitConfig    `yaml:"git"`
}

// PlaidConfig identifies the application to the data provider.
type PlaidConfig struct {
	ClientID    string `yaml:"client_id"`
	Secret      string `yaml:"secret"`
	Environment string `yaml:"environment"` // sandbox, development or production
	BaseURL     string `yaml:"base_url,omitempty"`
}

// TwilioConfig holds SMS delivery credentials.
type TwilioConfig struct {
	SID         string `yaml:"sid"`
	AuthToken   string `yaml:"auth_token"`
	PhoneNumber string `yaml:"phone_number"` // sender
	MyNumber    string `yaml:"my_number"`    // recipient
}

// EmailConfig holds outbound SMTP credentials.
type EmailConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Account     string `yaml:"account"` // sender and SMTP user
	AppPassword string `yaml:"app_password"`
	To          string `yaml:"to"`
}

// GitConfig controls committing snapshot files.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// legacyKeys is the flat credentials.json layout of earlier installs.
type legacyKeys struct {
	PlaidClientID     string `yaml:"plaid_client_id"`
	PlaidSecret       string `yaml:"plaid_secret"`
	TwilioSID         string `yaml:"twilio_sid"`
	TwilioAuthToken   string `yaml:"twilio_auth_token"`
	TwilioPhoneNumber string `yaml:"twilio_phone_number"`
	MyPhoneNumber     string `yaml:"my_phone_number"`
}

// apply fills fields the nested layout left empty.
func (l legacyKeys) apply(cfg *Config) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&cfg.Plaid.ClientID, l.PlaidClientID)
	fill(&cfg.Plaid.Secret, l.PlaidSecret)
	fill(&cfg.Twilio.SID, l.TwilioSID)
	fill(&cfg.Twilio.AuthToken, l.TwilioAuthToken)
	fill(&cfg.Twilio.PhoneNumber, l.TwilioPhoneNumber)
	fill(&cfg.Twilio.MyNumber, l.MyPhoneNumber)
}

// Load reads a credentials file from disk, then applies DAILYSPEND_* environment
// overrides. A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	var legacy legacyKeys
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	legacy.apply(cfg)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	applyEnv(cfg, os.Getenv)
	return cfg, nil
}

// Save writes a Config to a YAML file readable only by the owner.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new setup.
func Default() *Config {
	return &Config{
		Plaid: PlaidConfig{Environment: "development"},
		Email: EmailConfig{Host: "smtp.gmail.com", Port: 587},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "dailyspend",
			AuthorEmail: "dailyspend@localhost",
		},
	}
}

// AccountIDs returns the account filter for provider requests.
func (c *Config) AccountIDs() []string {
	if c.AccountID == "" {
		return nil
	}
	return []string{c.AccountID}
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv("DAILYSPEND_" + key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Plaid.ClientID, "PLAID_CLIENT_ID")
	set(&cfg.Plaid.Secret, "PLAID_SECRET")
	set(&cfg.Plaid.Environment, "PLAID_ENV")
	set(&cfg.Twilio.SID, "TWILIO_SID")
	set(&cfg.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	set(&cfg.Twilio.PhoneNumber, "TWILIO_PHONE_NUMBER")
	set(&cfg.Twilio.MyNumber, "MY_PHONE_NUMBER")
	set(&cfg.Email.Account, "EMAIL_ACCOUNT")
	set(&cfg.Email.AppPassword, "EMAIL_APP_PASSWORD")
	set(&cfg.Email.To, "EMAIL_TO")
	set(&cfg.AccountID, "ACCOUNT_ID")
}

// Requirement names a feature whose credentials must be present.
type Requirement string

const (
	NeedPlaid Requirement = "plaid"
	NeedSMS   Requirement = "sms"
	NeedEmail Requirement = "email"
)

// Validate checks that every credential needed by reqs is set and returns all
// problems at once.
func (c *Config) Validate(reqs ...Requirement) error {
	var problems []string
	missing := func(v, name string) {
		if strings.TrimSpace(v) == "" {
			problems = append(problems, name+" is required")
		}
	}

	for _, r := range reqs {
		switch r {
		case NeedPlaid:
			missing(c.Plaid.ClientID, "plaid.client_id")
			missing(c.Plaid.Secret, "plaid.secret")
			missing(c.Plaid.Environment, "plaid.environment")
		case NeedSMS:
			missing(c.Twilio.SID, "twilio.sid")
			missing(c.Twilio.AuthToken, "twilio.auth_token")
			missing(c.Twilio.PhoneNumber, "twilio.phone_number")
			missing(c.Twilio.MyNumber, "twilio.my_number")
		case NeedEmail:
			missing(c.Email.Host, "email.host")
			missing(c.Email.Account, "email.account")
			missing(c.Email.AppPassword, "email.app_password")
			if c.Email.Port < 1 || c.Email.Port > 65535 {
				problems = append(problems, fmt.Sprintf("email.port %d must be between 1 and 65535", c.Email.Port))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// LoadToken reads the provider access token written by the link flow.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading access token: %w", err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", ErrMissingToken
	}
	return tok, nil
}

// SaveToken writes the provider access token, readable only by the owner.
func SaveToken(path, token string) error {
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("writing access token: %w", err)
	}
	return nil
}
