package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Gamma     GammaConfig     `mapstructure:"gamma"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Cron      CronConfig      `mapstructure:"cron"`
	OpsLog    OpsLogConfig    `mapstructure:"opslog"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// GammaConfig points at the upstream market listing proxied by /polymarket-feed.
type GammaConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	MarketsPath string        `mapstructure:"markets_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type DashboardConfig struct {
	RowLimit      int      `mapstructure:"row_limit"`
	SelectorLimit int      `mapstructure:"selector_limit"`
	Notes         []string `mapstructure:"notes"`
}

type CronConfig struct {
	SchemaWatch string `mapstructure:"schema_watch"`
}

type OpsLogConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Agent   string `mapstructure:"agent"`
}

var defaultNotes = []string{
	"Fix resolved fetcher: ensure resolved markets are ingested and status flags are accurate.",
	"Candles tab: patch missing token ids and verify recent data ingestion.",
	"Orderbook tab: confirm bid/ask updates and clean up inactive tokens.",
	"Event data refresh: explore the Polymarket /markets endpoint for fresher event metadata.",
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	setDefaults(v)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 2)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("gamma.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("gamma.markets_path", "/markets")
	v.SetDefault("gamma.timeout", "10s")
	v.SetDefault("dashboard.row_limit", 100)
	v.SetDefault("dashboard.selector_limit", 100)
	v.SetDefault("dashboard.notes", defaultNotes)
	v.SetDefault("cron.schema_watch", "@every 15m")
	v.SetDefault("opslog.base_url", "")
	v.SetDefault("opslog.api_key", "")
	v.SetDefault("opslog.agent", "polymarket-relay")
}
