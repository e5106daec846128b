package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Cron     CronConfig     `mapstructure:"cron"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Detector DetectorConfig `mapstructure:"detector"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Decision DecisionConfig `mapstructure:"decision"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Treasury TreasuryConfig `mapstructure:"treasury"`
	Advisor  AdvisorConfig  `mapstructure:"advisor"`
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
	// DSN is optional; without it recommendations and plans are not persisted.
	DSN string `mapstructure:"dsn"`
}

type CacheConfig struct {
	// RedisAddr is optional; without it observations live in process memory.
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type CronConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Sweep evicts expired entries from the in-memory cache.
	Sweep string `mapstructure:"sweep"`
}

type ScanConfig struct {
	Interval       time.Duration                `mapstructure:"interval"`
	ErrorBackoff   time.Duration                `mapstructure:"error_backoff"`
	ObservationTTL time.Duration                `mapstructure:"observation_ttl"`
	Marketplaces   map[string]MarketplaceConfig `mapstructure:"marketplaces"`
}

type MarketplaceConfig struct {
	Kind      string `mapstructure:"kind"`
	BaseURL   string `mapstructure:"base_url"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	ShiftPct  int    `mapstructure:"shift_pct"`
}

type DetectorConfig struct {
	FeeRate      float64 `mapstructure:"fee_rate"`
	MinProfitUSD float64 `mapstructure:"min_profit_usd"`
	MinMarginPct float64 `mapstructure:"min_margin_pct"`
}

type RiskConfig struct {
	HighRiskMarketplaces []string `mapstructure:"high_risk_marketplaces"`
	ConcentrationLimit   int      `mapstructure:"concentration_limit"`
}

type DecisionConfig struct {
	MinProfitUSD  float64 `mapstructure:"min_profit_usd"`
	MinConfidence float64 `mapstructure:"min_confidence"`
	MaxTradeUSD   float64 `mapstructure:"max_trade_usd"`
}

type PlannerConfig struct {
	CostMultiplier int `mapstructure:"cost_multiplier"`
}

type TreasuryConfig struct {
	BalanceUSD float64 `mapstructure:"balance_usd"`
}

type AdvisorConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKeyEnv string        `mapstructure:"api_key_env"`
	Model     string        `mapstructure:"model"`
	MaxTokens int64         `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.dsn", "")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.sweep", "@every 10m")
	v.SetDefault("scan.interval", "5m")
	v.SetDefault("scan.error_backoff", "60s")
	v.SetDefault("scan.observation_ttl", "1h")
	v.SetDefault("detector.fee_rate", 0.10)
	v.SetDefault("detector.min_profit_usd", 20)
	v.SetDefault("detector.min_margin_pct", 15)
	v.SetDefault("risk.high_risk_marketplaces", []string{"aliexpress"})
	v.SetDefault("risk.concentration_limit", 5)
	v.SetDefault("decision.min_profit_usd", 20)
	v.SetDefault("decision.min_confidence", 0.70)
	v.SetDefault("decision.max_trade_usd", 5000)
	v.SetDefault("planner.cost_multiplier", 4)
	v.SetDefault("treasury.balance_usd", 1000)
	v.SetDefault("advisor.enabled", false)
	v.SetDefault("advisor.api_key_env", "ANTHROPIC_API_KEY")
	v.SetDefault("advisor.model", "claude-sonnet-4-20250514")
	v.SetDefault("advisor.max_tokens", 1024)
	v.SetDefault("advisor.timeout", "30s")

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
