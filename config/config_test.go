package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/config"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
)

type subConfig struct {
	Key string `env:"TEST_SUB_KEY" env-default:"sub"`
}

type testConfig struct {
	Sub      subConfig
	Workers  uint          `env:"TEST_WORKERS"  env-default:"4"`
	Timeout  time.Duration `env:"TEST_TIMEOUT"  env-default:"5s"`
	Blocking bool          `env:"TEST_BLOCKING" env-default:"true"`
	Prefix   string        `env:"TEST_PREFIX"   env-default:"/"`
	Groups   []int         `env:"TEST_GROUPS"   env-default:"0,1"`
}

func TestLoadConfigStructFromEnv_Defaults(t *testing.T) {
	var cfg testConfig

	err := config.LoadConfigStructFromEnvHandlingError(&cfg, yalogger.NewDiscardLogger())
	require.Nil(t, err)

	assert.Equal(t, uint(4), cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Blocking)
	assert.Equal(t, "/", cfg.Prefix)
	assert.Equal(t, []int{0, 1}, cfg.Groups)
	assert.Equal(t, "sub", cfg.Sub.Key)
}

func TestLoadConfigStructFromEnv_Overrides(t *testing.T) {
	t.Setenv("TEST_WORKERS", "16")
	t.Setenv("TEST_BLOCKING", "false")
	t.Setenv("TEST_SUB_KEY", "override")

	var cfg testConfig

	err := config.LoadConfigStructFromEnvHandlingError(&cfg, nil)
	require.Nil(t, err)

	assert.Equal(t, uint(16), cfg.Workers)
	assert.False(t, cfg.Blocking)
	assert.Equal(t, "override", cfg.Sub.Key)
}

func TestLoadConfigStructFromEnv_InvalidValue(t *testing.T) {
	t.Setenv("TEST_WORKERS", "many")

	var cfg testConfig

	err := config.LoadConfigStructFromEnvHandlingError(&cfg, yalogger.NewDiscardLogger())
	require.NotNil(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidEnvironment)
}

func TestLoadConfigStructFromEnv_RejectsNonStruct(t *testing.T) {
	value := 5

	err := config.LoadConfigStructFromEnvHandlingError(&value, yalogger.NewDiscardLogger())
	require.NotNil(t, err)
	assert.ErrorIs(t, err, config.ErrConfigStructMustBeStruct)
}

func TestLoadConfigStructFromFile_Works(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.yaml")

	require.NoError(t, os.WriteFile(path, []byte("workers: 9\nprefix: \"!\"\n"), 0o600))

	type fileConfig struct {
		Workers uint   `yaml:"workers" env:"TEST_FILE_WORKERS"`
		Prefix  string `yaml:"prefix"  env:"TEST_FILE_PREFIX"`
	}

	var cfg fileConfig

	err := config.LoadConfigStructFromFile(path, &cfg, yalogger.NewDiscardLogger())
	require.Nil(t, err)

	assert.Equal(t, uint(9), cfg.Workers)
	assert.Equal(t, "!", cfg.Prefix)
}

func TestDescribe_ListsVariables(t *testing.T) {
	var cfg testConfig

	text, err := config.Describe(&cfg)
	require.Nil(t, err)

	assert.Contains(t, text, "TEST_WORKERS")
}
