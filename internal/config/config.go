package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "COMMUNITY_ENGINE_CONFIG"
	appOriginEnv      = "APP_ORIGIN"
	logLevelEnv       = "LOG_LEVEL"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	metricsAddrEnv    = "METRICS_ADDR"
)

// Seed source kinds.
const (
	SeedYAML     = "yaml"
	SeedPostgres = "postgres"
)

// Config holds high-level settings required across the application.
type Config struct {
	App           AppConfig          `yaml:"app"`
	Logging       LoggingConfig      `yaml:"logging"`
	Community     CommunityConfig    `yaml:"community"`
	Viewer        ViewerConfig       `yaml:"viewer"`
	Seed          SeedConfig         `yaml:"seed"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
	Metrics       MetricsConfig      `yaml:"metrics"`
}

// AppConfig carries the public origin used to build share links.
type AppConfig struct {
	Origin string `yaml:"origin"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CommunityConfig tunes paging and the simulated latencies.
type CommunityConfig struct {
	PostWindow     int           `yaml:"postWindow"`
	ResourceWindow int           `yaml:"resourceWindow"`
	WindowStep     int           `yaml:"windowStep"`
	ShareLatency   time.Duration `yaml:"shareLatency"`
	SubmitLatency  time.Duration `yaml:"submitLatency"`
}

// ViewerConfig is the identity attached to unattributed interactions.
type ViewerConfig struct {
	Name     string `yaml:"name"`
	Initials string `yaml:"initials"`
	Avatar   string `yaml:"avatar"`
}

// SeedConfig chooses where initial posts come from. An empty yaml path
// means the built-in threads.
type SeedConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// MetricsConfig exposes Prometheus metrics when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		cfg = loadFile(cfg, path)
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	return cfg
}

// Default returns the built-in configuration without reading files or env.
func Default() Config {
	cfg := defaultConfig()
	cfg.normalize()
	return cfg
}

func loadFile(cfg Config, path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		return cfg
	}

	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		return cfg
	}

	return mergeConfig(cfg, fileCfg)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(appOriginEnv); v != "" {
		c.App.Origin = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(metricsAddrEnv); v != "" {
		c.Metrics.Addr = v
	}
}

func (c *Config) normalize() {
	defaults := defaultConfig()

	c.App.Origin = strings.TrimRight(c.App.Origin, "/")

	if c.Community.PostWindow <= 0 {
		c.Community.PostWindow = defaults.Community.PostWindow
	}
	if c.Community.ResourceWindow <= 0 {
		c.Community.ResourceWindow = defaults.Community.ResourceWindow
	}
	if c.Community.WindowStep <= 0 {
		c.Community.WindowStep = defaults.Community.WindowStep
	}
	if c.Community.ShareLatency < 0 {
		log.Printf("config: negative share latency %s, using %s", c.Community.ShareLatency, defaults.Community.ShareLatency)
		c.Community.ShareLatency = defaults.Community.ShareLatency
	}
	if c.Community.SubmitLatency < 0 {
		log.Printf("config: negative submit latency %s, using %s", c.Community.SubmitLatency, defaults.Community.SubmitLatency)
		c.Community.SubmitLatency = defaults.Community.SubmitLatency
	}

	switch kind := strings.ToLower(strings.TrimSpace(c.Seed.Kind)); kind {
	case SeedYAML, SeedPostgres:
		c.Seed.Kind = kind
	default:
		log.Printf("config: unknown seed kind %q, reverting to %s", c.Seed.Kind, SeedYAML)
		c.Seed.Kind = SeedYAML
	}
}

func mergeConfig(base, override Config) Config {
	if override.App.Origin != "" {
		base.App.Origin = override.App.Origin
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Community.PostWindow != 0 {
		base.Community.PostWindow = override.Community.PostWindow
	}
	if override.Community.ResourceWindow != 0 {
		base.Community.ResourceWindow = override.Community.ResourceWindow
	}
	if override.Community.WindowStep != 0 {
		base.Community.WindowStep = override.Community.WindowStep
	}
	if override.Community.ShareLatency != 0 {
		base.Community.ShareLatency = override.Community.ShareLatency
	}
	if override.Community.SubmitLatency != 0 {
		base.Community.SubmitLatency = override.Community.SubmitLatency
	}

	if override.Viewer.Name != "" {
		base.Viewer = override.Viewer
	}

	if override.Seed.Kind != "" {
		base.Seed.Kind = override.Seed.Kind
	}
	if override.Seed.Path != "" {
		base.Seed.Path = override.Seed.Path
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Metrics.Addr != "" {
		base.Metrics.Addr = override.Metrics.Addr
	}

	return base
}

func defaultConfig() Config {
	return Config{
		App:     AppConfig{Origin: "http://localhost:3000"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Community: CommunityConfig{
			PostWindow:     3,
			ResourceWindow: 5,
			WindowStep:     3,
			ShareLatency:   time.Second,
			SubmitLatency:  time.Second,
		},
		Viewer: ViewerConfig{
			Name:     "John Smith",
			Initials: "JS",
			Avatar:   "/placeholder.svg?height=40&width=40",
		},
		Seed: SeedConfig{Kind: SeedYAML},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
	}
}
