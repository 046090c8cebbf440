// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values and validate

package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	TargetURL    string `yaml:"target_url"`
	OutputDir    string `yaml:"output_dir"`
	StrictChecks bool   `yaml:"strict_checks"`

	Browser  BrowserConfig `yaml:"browser"`
	Markers  MarkerConfig  `yaml:"markers"`
	Shots    ShotConfig    `yaml:"screenshots"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Settle   SettleConfig  `yaml:"settle"`
	Report   ReportConfig  `yaml:"report"`

	//Paths
	HistoryPath string `yaml:"history_path"`

	//Optional integrations
	DatabaseURL    string `yaml:"database_url"`
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
	ServerPort     string `yaml:"server_port"`
}

type BrowserConfig struct {
	Engine         string `yaml:"engine"` // chromium, firefox or webkit
	Headed         bool   `yaml:"headed"`
	Install        bool   `yaml:"install"`
	CookiesPath    string `yaml:"cookies_path"`
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`
}

// MarkerConfig holds the only contract points with the dashboard.
type MarkerConfig struct {
	Ready         string `yaml:"ready"`
	PrivacyToggle string `yaml:"privacy_toggle"`
	StrategyTab   string `yaml:"strategy_tab"`
	OriginChart   string `yaml:"origin_chart"`
}

type ShotConfig struct {
	Default  string `yaml:"default"`
	Privacy  string `yaml:"privacy"`
	Strategy string `yaml:"strategy"`
}

type TimeoutConfig struct {
	Navigation time.Duration `yaml:"navigation"`
	Ready      time.Duration `yaml:"ready"`
	Action     time.Duration `yaml:"action"`
}

const (
	SettleCondition = "condition"
	SettleFixed     = "fixed"
)

type SettleConfig struct {
	Mode        string        `yaml:"mode"`
	Timeout     time.Duration `yaml:"timeout"`
	QuietPeriod time.Duration `yaml:"quiet_period"`

	// Sleep durations used in fixed mode.
	AfterLoad   time.Duration `yaml:"after_load"`
	AfterToggle time.Duration `yaml:"after_toggle"`
	AfterTab    time.Duration `yaml:"after_tab"`
}

type ReportConfig struct {
	Disabled bool `yaml:"disabled"`
	PDF      bool `yaml:"pdf"`
}

// Default returns a config reproducing the dashboard's original verification run.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads .env, the YAML file at path and environment overrides.
// A missing file is not an error; defaults are used instead.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		log.Printf("⚠️ Could not read %s, using defaults", path)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("VERIFY_TARGET_URL"); v != "" {
		c.TargetURL = v
	}
	if v := os.Getenv("VERIFY_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("VERIFY_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid VERIFY_STRICT: %w", err)
		}
		c.StrictChecks = strict
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if port := os.Getenv("PORT"); port != "" {
		c.ServerPort = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	setString(&c.TargetURL, "http://localhost:3000")
	setString(&c.OutputDir, "/home/jules/verification")
	setString(&c.HistoryPath, "../.cache")
	setString(&c.ServerPort, "8080")

	setString(&c.Browser.Engine, "chromium")
	setInt(&c.Browser.ViewportWidth, 1280)
	setInt(&c.Browser.ViewportHeight, 720)

	setString(&c.Markers.Ready, "BI Growth")
	setString(&c.Markers.PrivacyToggle, "Ocultar Valores")
	setString(&c.Markers.StrategyTab, "Estratégico")
	setString(&c.Markers.OriginChart, "Origem dos Clientes")

	setString(&c.Shots.Default, "dashboard_default")
	setString(&c.Shots.Privacy, "dashboard_privacy")
	setString(&c.Shots.Strategy, "dashboard_strategy")

	// 30s matches playwright's own default wait budget.
	setDuration(&c.Timeouts.Navigation, 30*time.Second)
	setDuration(&c.Timeouts.Ready, 30*time.Second)
	setDuration(&c.Timeouts.Action, 10*time.Second)

	setString(&c.Settle.Mode, SettleCondition)
	setDuration(&c.Settle.Timeout, 10*time.Second)
	setDuration(&c.Settle.QuietPeriod, 500*time.Millisecond)
	setDuration(&c.Settle.AfterLoad, 2*time.Second)
	setDuration(&c.Settle.AfterToggle, 1*time.Second)
	setDuration(&c.Settle.AfterTab, 2*time.Second)
}

// Validate rejects values the runner cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.TargetURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid target_url %q", c.TargetURL)
	}

	switch c.Browser.Engine {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unsupported browser engine %q", c.Browser.Engine)
	}

	switch c.Settle.Mode {
	case SettleCondition, SettleFixed:
	default:
		return fmt.Errorf("unknown settle mode %q", c.Settle.Mode)
	}

	if c.Browser.ViewportWidth < 0 || c.Browser.ViewportHeight < 0 {
		return errors.New("viewport dimensions must be positive")
	}

	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		return errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}

// TelegramEnabled reports whether run summaries should be sent to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setDuration(v *time.Duration, def time.Duration) {
	if *v == 0 {
		*v = def
	}
}
