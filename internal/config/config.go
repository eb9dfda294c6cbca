package config

import (
	"time"

	"github.com/spf13/viper"
)

// EngineConfig controls ledger engine behavior.
type EngineConfig struct {
	// OutputPrecision is the number of fractional digits used when rendering
	// balances. The source data carries up to four.
	OutputPrecision int32
	// AllowLockedDeposits accepts deposits on a locked account instead of
	// rejecting them. The default is the stricter reject behavior.
	AllowLockedDeposits bool
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

type Config struct {
	Engine   EngineConfig
	Server   ServerConfig
	LogLevel string
}

// Load reads configuration from an optional .env file and the environment.
// Environment variables always win over file values.
func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("engine.output_precision", 4)
	v.SetDefault("engine.allow_locked_deposits", false)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("log.level", "info")

	v.BindEnv("engine.output_precision", "ENGINE_OUTPUT_PRECISION")
	v.BindEnv("engine.allow_locked_deposits", "ENGINE_ALLOW_LOCKED_DEPOSITS")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.idle_timeout", "SERVER_IDLE_TIMEOUT")
	v.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")
	v.BindEnv("server.request_timeout", "SERVER_REQUEST_TIMEOUT")
	v.BindEnv("log.level", "LOG_LEVEL")

	// The .env file is optional.
	v.ReadInConfig()

	return &Config{
		Engine: EngineConfig{
			OutputPrecision:     v.GetInt32("engine.output_precision"),
			AllowLockedDeposits: v.GetBool("engine.allow_locked_deposits"),
		},
		Server: ServerConfig{
			Port:            v.GetString("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			IdleTimeout:     v.GetDuration("server.idle_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			RequestTimeout:  v.GetDuration("server.request_timeout"),
		},
		LogLevel: v.GetString("log.level"),
	}
}
