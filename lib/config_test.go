package lib

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

type annotatorConfig struct {
	BaseConfig `mapstructure:",squash"`
	Resources  struct {
		Gazette string
	}
	Pipeline struct {
		Workers    int
		GenerateQA bool `mapstructure:"generate_qa"`
	}
	NotInConfig string `mapstructure:"not_in_config"`
}

func writeConfig(t *testing.T, name string, values map[string]interface{}) string {
	data, err := yaml.Marshal(values)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, ioutil.WriteFile(path, data, 0600))
	return path
}

func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
}

func TestInitializeConfigFromPath(t *testing.T) {
	resetFlags()
	path := writeConfig(t, "annotator.yml", map[string]interface{}{
		"log_level": "debug",
		"resources": map[string]interface{}{"gazette": "resources/health_entities.json"},
		"pipeline":  map[string]interface{}{"workers": 4},
	})

	var conf annotatorConfig
	err := InitializeConfig(path, map[string]interface{}{"pipeline.generate_qa": true}, &conf)

	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, "resources/health_entities.json", conf.Resources.Gazette)
	assert.Equal(t, 4, conf.Pipeline.Workers)
	// defaults fill keys missing from the file
	assert.True(t, conf.Pipeline.GenerateQA)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	resetFlags()
	path := writeConfig(t, "annotator.yml", map[string]interface{}{
		"resources": map[string]interface{}{"gazette": "resources/health_entities.json"},
	})
	t.Setenv("RESOURCES_GAZETTE", "/etc/gazette.json")
	t.Setenv("PIPELINE_WORKERS", "8")
	t.Setenv("NOT_IN_CONFIG", "ignored")

	var conf annotatorConfig
	err := InitializeConfig(path, map[string]interface{}{"pipeline.workers": 1}, &conf)

	require.NoError(t, err)
	assert.Equal(t, "/etc/gazette.json", conf.Resources.Gazette)
	assert.Equal(t, 8, conf.Pipeline.Workers)
	// unknown keys are not read from the environment
	assert.Empty(t, conf.NotInConfig)
}

func TestInitializeConfigMissingFile(t *testing.T) {
	resetFlags()
	t.Setenv("PIPELINE_WORKERS", "3")

	var conf annotatorConfig
	err := InitializeConfig(filepath.Join(t.TempDir(), "missing.yml"), map[string]interface{}{"pipeline.workers": 1}, &conf)

	require.NoError(t, err)
	assert.Equal(t, 3, conf.Pipeline.Workers)
}

func TestInitializeConfigWithFlag(t *testing.T) {
	resetFlags()
	defaultPath := writeConfig(t, "annotator.yml", map[string]interface{}{
		"resources": map[string]interface{}{"gazette": "default.json"},
	})
	overridePath := writeConfig(t, "override.yml", map[string]interface{}{
		"resources": map[string]interface{}{"gazette": "override.json"},
	})
	pflag.String(configFlag, defaultPath, "The config file path.")
	require.NoError(t, pflag.Set(configFlag, overridePath))

	var conf annotatorConfig
	err := InitializeConfig(defaultPath, map[string]interface{}{}, &conf)

	require.NoError(t, err)
	assert.Equal(t, "override.json", conf.Resources.Gazette)
}

func TestInitializeConfigBadLogLevel(t *testing.T) {
	resetFlags()
	path := writeConfig(t, "annotator.yml", map[string]interface{}{"log_level": "loud"})

	var conf annotatorConfig
	assert.Error(t, InitializeConfig(path, map[string]interface{}{}, &conf))
}
