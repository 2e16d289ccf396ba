package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr  string
	PostgresDSN string
	RedisAddr   string

	LLMGatewayURL string
	LLMTimeout    time.Duration

	WorkerConcurrency int
	// DispatchDelay lets the caller's transaction commit before the worker
	// re-reads the rows it created. A settle workaround, not a guarantee.
	DispatchDelay time.Duration

	Development bool
}

// Load reads CASEFLOW_* environment variables with sane local defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("caseflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("postgres_dsn", "host=localhost user=postgres password=postgres dbname=caseflow port=5432 sslmode=disable")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("llm_gateway_url", "http://localhost:9090")
	v.SetDefault("llm_timeout", "5m")
	v.SetDefault("worker_concurrency", 4)
	v.SetDefault("dispatch_delay", "100ms")
	v.SetDefault("development", false)

	return &Config{
		ListenAddr:        v.GetString("listen_addr"),
		PostgresDSN:       v.GetString("postgres_dsn"),
		RedisAddr:         v.GetString("redis_addr"),
		LLMGatewayURL:     v.GetString("llm_gateway_url"),
		LLMTimeout:        v.GetDuration("llm_timeout"),
		WorkerConcurrency: v.GetInt("worker_concurrency"),
		DispatchDelay:     v.GetDuration("dispatch_delay"),
		Development:       v.GetBool("development"),
	}, nil
}
