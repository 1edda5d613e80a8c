/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lib

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlag = "config"

// BaseConfig holds the keys every command understands.
type BaseConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

/**
	InitializeConfig loads the configuration of a command into target.

	Values are read, lowest priority first, from defaults, the yml file at defaultPath (or
	at the path given with --config) and environment variables. An environment variable
	only overrides a key that exists in defaults or in the file; nested keys are named with
	underscores, so ELASTICSEARCH_HOST sets elasticsearch.host.

	A missing config file is not an error, the defaults are used instead.

	Other flags must be defined on pflag.CommandLine before the call. Once the config is
	read the global log level and format are set from log_level and log_format.
**/
func InitializeConfig(defaultPath string, defaults map[string]interface{}, target interface{}) error {
	if pflag.CommandLine.Lookup(configFlag) == nil {
		pflag.String(configFlag, defaultPath, "The config file path.")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}

	v := viper.New()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return err
	}

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if configFile := v.GetString(configFlag); configFile != "" {
		configFile, err := filepath.Abs(configFile)
		if err != nil {
			return err
		}
		v.SetConfigName(strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile)))
		v.AddConfigPath(filepath.Dir(configFile))
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Warn().Err(err).Msg("default settings applied")
	} else if err != nil {
		return err
	}

	var bc BaseConfig
	if err := v.Unmarshal(&bc); err != nil {
		return err
	}
	if bc.LogLevel != "" {
		lvl, err := zerolog.ParseLevel(bc.LogLevel)
		if err != nil {
			return err
		}
		zerolog.SetGlobalLevel(lvl)
	}
	if err := InitializeLogger(bc.LogFormat, nil); err != nil {
		return err
	}

	return v.Unmarshal(target)
}
