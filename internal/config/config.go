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
	Cron      CronConfig      `mapstructure:"cron"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Writeback WritebackConfig `mapstructure:"writeback"`
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

type CronConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ScoreRefresh string `mapstructure:"score_refresh"`
}

// EngineConfig carries the scoring knobs. Weight magnitudes and the tie-break
// rule are documented defaults rather than confirmed business law; deployments
// may override them until validated against real outcomes.
type EngineConfig struct {
	ContactSilenceDays      int     `mapstructure:"contact_silence_days"`
	ContactWeightPerDay     int     `mapstructure:"contact_weight_per_day"`
	ContactWeightCap        int     `mapstructure:"contact_weight_cap"`
	MissingContactDays      int     `mapstructure:"missing_contact_days"`
	FinancingGraceHours     int     `mapstructure:"financing_grace_hours"`
	FinancingStallWeight    int     `mapstructure:"financing_stall_weight"`
	StageDwellWeight        int     `mapstructure:"stage_dwell_weight"`
	HighValueThreshold      float64 `mapstructure:"high_value_threshold"`
	HighValueWeight         int     `mapstructure:"high_value_weight"`
	NegativeSentimentWeight int     `mapstructure:"negative_sentiment_weight"`

	// StageSLADays maps a pipeline status to its dwell SLA in days.
	StageSLADays map[string]int `mapstructure:"stage_sla_days"`

	// TieBreak selects the secondary sort for equal risk scores:
	// "total_amount" (default) or "contact_silence".
	TieBreak string `mapstructure:"tie_break"`

	// Workers bounds per-request scoring concurrency.
	Workers int `mapstructure:"workers"`

	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

type WritebackConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	QueueSize int  `mapstructure:"queue_size"`
	Workers   int  `mapstructure:"workers"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DO")
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
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.score_refresh", "@every 15m")

	v.SetDefault("engine.contact_silence_days", 7)
	v.SetDefault("engine.contact_weight_per_day", 3)
	v.SetDefault("engine.contact_weight_cap", 30)
	v.SetDefault("engine.missing_contact_days", 30)
	v.SetDefault("engine.financing_grace_hours", 48)
	v.SetDefault("engine.financing_stall_weight", 40)
	v.SetDefault("engine.stage_dwell_weight", 15)
	v.SetDefault("engine.high_value_threshold", 100000)
	v.SetDefault("engine.high_value_weight", 10)
	v.SetDefault("engine.negative_sentiment_weight", 25)
	v.SetDefault("engine.stage_sla_days", map[string]int{
		"NEW":                5,
		"CONTACTED":          7,
		"TEST_DRIVE":         7,
		"NEGOTIATION":        10,
		"FINANCING":          7,
		"APPROVED":           5,
		"READY_FOR_DELIVERY": 3,
	})
	v.SetDefault("engine.tie_break", "total_amount")
	v.SetDefault("engine.workers", 8)
	v.SetDefault("engine.default_limit", 20)
	v.SetDefault("engine.max_limit", 50)

	v.SetDefault("writeback.enabled", true)
	v.SetDefault("writeback.queue_size", 1024)
	v.SetDefault("writeback.workers", 4)

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
