package yadispatch

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/config"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaworkerpool"
)

// Config holds dispatcher settings. Fields map to YADISPATCH_* environment variables.
type Config struct {
	Workers           uint   `env:"YADISPATCH_WORKERS"            env-default:"4"    env-description:"pool workers running non-blocking callbacks"`
	QueueSize         uint   `env:"YADISPATCH_QUEUE_SIZE"         env-default:"256"  env-description:"maximum queued non-blocking callbacks"`
	ConcurrentUpdates uint   `env:"YADISPATCH_CONCURRENT_UPDATES" env-default:"1"    env-description:"updates dispatched concurrently by Start"`
	DefaultBlocking   bool   `env:"YADISPATCH_DEFAULT_BLOCKING"   env-default:"true" env-description:"blocking flag for handlers built with Dispatcher.Defaults"`
	CommandPrefix     string `env:"YADISPATCH_COMMAND_PREFIX"     env-default:"/"    env-description:"command prefix for handlers built with Dispatcher.Defaults"`
	ReuseContext      bool   `env:"YADISPATCH_REUSE_CONTEXT"      env-default:"true" env-description:"share one HandlerData across the groups of a pass"`

	LogLevel yalogger.Level `env:"YADISPATCH_LOG_LEVEL" env-default:"info" env-description:"level of the logger New creates when none is given"`
}

// DefaultConfig returns the same values as an empty environment.
func DefaultConfig() Config {
	return Config{
		Workers:           yaworkerpool.DefaultWorkers,
		QueueSize:         yaworkerpool.DefaultQueueSize,
		ConcurrentUpdates: 1,
		DefaultBlocking:   true,
		CommandPrefix:     string(DefaultCommandPrefix),
		ReuseContext:      true,
		LogLevel:          yalogger.InfoLevel,
	}
}

// LoadConfig reads Config from .env and the process environment.
//
// Example usage:
//
//	cfg, err := yadispatch.LoadConfig(log)
//	if err != nil {
//	    log.Fatalf("config: %v", err)
//	}
func LoadConfig(log yalogger.Logger) (Config, yaerrors.Error) {
	var cfg Config

	if err := config.LoadConfigStructFromEnvHandlingError(&cfg, log); err != nil {
		return Config{}, err.Wrap("load dispatcher config")
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) validate() yaerrors.Error {
	if utf8.RuneCountInString(c.CommandPrefix) != 1 {
		return configurationError(fmt.Sprintf("command prefix %q must be a single character", c.CommandPrefix))
	}

	if c.ConcurrentUpdates == 0 {
		c.ConcurrentUpdates = 1
	}

	return nil
}

func (c *Config) logger() yalogger.Logger {
	return yalogger.NewBaseLogger(&yalogger.Config{
		BaseLoggerType:  yalogger.Logrus,
		Level:           c.LogLevel,
		FullTimestamp:   true,
		TimestampFormat: time.DateTime,
	}).NewLogger()
}

func (c *Config) defaults() Defaults {
	prefix, _ := utf8.DecodeRuneInString(c.CommandPrefix)

	return Defaults{
		Blocking:      c.DefaultBlocking,
		CommandPrefix: prefix,
	}
}
