package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrNoSurfaceEnabled = errors.New("neither telegram token nor http address configured")

const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string     `mapstructure:"env"`            // current application environment (local, dev, production)
	TelegramAPIToken string     `mapstructure:"-"`              // Telegram API token loaded from environment
	QuestionsPath    string     `mapstructure:"questions_path"` // optional YAML with question definitions
	Generation       Generation `mapstructure:"generation"`     // generation backend section
	Telegram         Telegram   `mapstructure:"telegram"`       // telegram surface section
	HTTP             HTTP       `mapstructure:"http"`           // web form surface section
	Session          Session    `mapstructure:"session"`        // session lifetime section
	DB               DB         `mapstructure:"database"`       // database configuration section
}

// Generation describes the text generation backend.
type Generation struct {
	Backend     string        `mapstructure:"backend"`      // "openai" or "gemini"
	Model       string        `mapstructure:"model"`        // model identifier, backend default when empty
	BaseURL     string        `mapstructure:"base_url"`     // OpenAI-compatible API root
	GeminiURL   string        `mapstructure:"gemini_url"`   // Gemini API root, SDK default when empty
	Timeout     time.Duration `mapstructure:"timeout"`      // whole-request timeout for one generation
	TypingDelay time.Duration `mapstructure:"typing_delay"` // cosmetic pause between rendered fragments
	Key         string        `mapstructure:"-"`            // API key loaded from environment
}

// APIKey reports the generation credential, if any.
func (g Generation) APIKey() (string, bool) {
	key := strings.TrimSpace(g.Key)
	return key, key != ""
}

// ModelOrDefault returns the configured model or the backend default.
func (g Generation) ModelOrDefault() string {
	if g.Model != "" {
		return g.Model
	}
	if g.Backend == BackendGemini {
		return "gemini-2.0-flash"
	}
	return "gpt-4o-mini"
}

type Telegram struct {
	EditInterval time.Duration `mapstructure:"edit_interval"` // minimum pause between streamed message edits
	Debug        bool          `mapstructure:"debug"`
}

type HTTP struct {
	Addr string `mapstructure:"addr"` // listen address, empty disables the web form
}

type Session struct {
	IdleTTL time.Duration `mapstructure:"idle_ttl"` // sessions untouched for longer are dropped
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Enabled reports whether the optional user registry should be used.
func (db DB) Enabled() bool {
	return db.URL != ""
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("questions_path", "")
	v.SetDefault("generation.backend", BackendOpenAI)
	v.SetDefault("generation.model", "")
	v.SetDefault("generation.base_url", "https://api.openai.com")
	v.SetDefault("generation.gemini_url", "")
	v.SetDefault("generation.timeout", "120s")
	v.SetDefault("generation.typing_delay", "20ms")
	v.SetDefault("telegram.edit_interval", "1s")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("session.idle_ttl", "24h")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()
	v.AllowEmptyEnv(true) // HTTP_ADDR="" must disable the web form

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("generation.base_url", "OPENAI_BASE_URL")
	_ = v.BindEnv("generation.gemini_url", "GEMINI_BASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.Generation.Backend = strings.ToLower(strings.TrimSpace(cfg.Generation.Backend))
	switch cfg.Generation.Backend {
	case BackendOpenAI:
		cfg.Generation.Key = v.GetString("openai_api_key")
	case BackendGemini:
		cfg.Generation.Key = v.GetString("gemini_api_key")
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Generation.Backend)
	}

	// Sensitive values come from the environment only.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if cfg.TelegramAPIToken == "" && cfg.HTTP.Addr == "" {
		return nil, ErrNoSurfaceEnabled
	}

	return &cfg, nil
}
