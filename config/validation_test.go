package config_test

import (
	"testing"

	"github.com/mcuadros/go-defaults"
	"github.com/stretchr/testify/assert"

	"github.com/odpf/jobpack/config"
)

func defaultConfig() *config.ClientConfig {
	conf := &config.ClientConfig{}
	defaults.SetDefaults(conf)
	return conf
}

func TestValidate(t *testing.T) {
	t.Run("should return nil for default config", func(t *testing.T) {
		assert.NoError(t, config.Validate(defaultConfig()))
	})
	t.Run("should return error for nil config", func(t *testing.T) {
		assert.Error(t, config.Validate(nil))
	})
	t.Run("should return error for unknown log level", func(t *testing.T) {
		conf := defaultConfig()
		conf.Log.Level = "verbose"

		assert.Error(t, config.Validate(conf))
	})
	t.Run("should return error for unknown strategy", func(t *testing.T) {
		conf := defaultConfig()
		conf.Processing.Strategy = "docker"

		assert.Error(t, config.Validate(conf))
	})
	t.Run("should return error when instance count is below one", func(t *testing.T) {
		conf := defaultConfig()
		conf.Processing.InstanceCount = -1

		assert.Error(t, config.Validate(conf))
	})
	t.Run("should return error for unknown failure policy", func(t *testing.T) {
		conf := defaultConfig()
		conf.Submission.OnFailure = "ignore"

		assert.Error(t, config.Validate(conf))
	})
	t.Run("should accept supported storage url", func(t *testing.T) {
		conf := defaultConfig()
		conf.Storage.URL = "file:///tmp/bucket"

		assert.NoError(t, config.Validate(conf))
	})
	t.Run("should return error for unsupported storage url", func(t *testing.T) {
		conf := defaultConfig()
		conf.Storage.URL = "gs://bucket"

		assert.Error(t, config.Validate(conf))
	})
}
