// Package config loads configuration structs from the process environment.
//
// Fields are described with cleanenv struct tags (`env`, `env-default`,
// `env-required`, `env-description`); a .env file in the working directory is
// loaded first and never overrides variables that are already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"reflect"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
)

// LoadConfigStructFromEnv loads environment variables into a struct and terminates
// the program through log.Fatalf if that fails.
//
// This is a wrapper around LoadConfigStructFromEnvHandlingError.
//
// Example usage:
//
//	type Config struct {
//		Workers  uint          `env:"DISPATCH_WORKERS" env-default:"4"`
//		Timeout  time.Duration `env:"DISPATCH_TIMEOUT" env-default:"5s"`
//		RedisURL string        `env:"REDIS_URL" env-required:"true"`
//	}
//
//	var cfg Config
//
//	config.LoadConfigStructFromEnv(&cfg, log)
func LoadConfigStructFromEnv[T any](instance *T, log yalogger.Logger) {
	safetyCheck(&log)

	err := LoadConfigStructFromEnvHandlingError(instance, log)
	if err != nil {
		log.Fatalf("Failed to load config struct from env: %v", err)
	}
}

// LoadConfigStructFromEnvHandlingError loads environment variables into a struct.
//
// Example usage:
//
//	var cfg yadispatch.Config
//
//	if err := config.LoadConfigStructFromEnvHandlingError(&cfg, log); err != nil {
//		// handle error
//	}
func LoadConfigStructFromEnvHandlingError[T any](instance *T, log yalogger.Logger) yaerrors.Error {
	safetyCheck(&log)

	if instance == nil || reflect.ValueOf(instance).Elem().Kind() != reflect.Struct {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			ErrConfigStructMustBeStruct,
			fmt.Sprintf("config loader, got %T", instance),
			log,
		)
	}

	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Error loading %s file: %v", DotEnvFile, err)
	}

	if err := cleanenv.ReadEnv(instance); err != nil {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			fmt.Errorf("%w: %w", ErrInvalidEnvironment, err),
			fmt.Sprintf("config loader: failed to read env into %T", instance),
			log,
		)
	}

	return nil
}

// LoadConfigStructFromFile reads a yaml, json, toml or env file into a struct and then
// applies environment overrides, following the same tags as LoadConfigStructFromEnv.
func LoadConfigStructFromFile[T any](path string, instance *T, log yalogger.Logger) yaerrors.Error {
	safetyCheck(&log)

	if err := cleanenv.ReadConfig(path, instance); err != nil {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			err,
			"config loader: failed to read "+path,
			log,
		)
	}

	return nil
}

// Describe returns the human-readable list of environment variables a struct reads.
func Describe[T any](instance *T) (string, yaerrors.Error) {
	text, err := cleanenv.GetDescription(instance, nil)
	if err != nil {
		return "", yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("config loader: failed to describe %T", instance),
		)
	}

	return text, nil
}
