package logger_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/odpf/jobpack/client/cmd/internal/logger"
	"github.com/odpf/jobpack/config"
)

func TestClientLogger(t *testing.T) {
	color.NoColor = true

	t.Run("should print formatted plain lines", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := logger.NewClientLoggerWithWriter(config.LogConfig{Level: config.LogLevelInfo}, buf)

		l.Info("uploaded %s to %s", "job1.zip", "s3://b/path-to-zip/job1.zip")

		assert.Equal(t, "uploaded job1.zip to s3://b/path-to-zip/job1.zip\n", buf.String())
		assert.Equal(t, "INFO", l.Level())
	})
	t.Run("should drop messages below configured level", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := logger.NewClientLoggerWithWriter(config.LogConfig{Level: "warn"}, buf)

		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")

		assert.Equal(t, "warn\nerror\n", buf.String())
	})
	t.Run("should fall back to info for unknown level", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := logger.NewClientLoggerWithWriter(config.LogConfig{Level: "verbose"}, buf)

		l.Debug("debug")
		l.Info("info")

		assert.Equal(t, "info\n", buf.String())
	})
	t.Run("should write json when configured", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := logger.NewClientLoggerWithWriter(config.LogConfig{Level: config.LogLevelInfo, Format: config.LogFormatJSON}, buf)

		l.Info("submitted job %s", "job-1")

		assert.Contains(t, buf.String(), `"msg":"submitted job job-1"`)
		assert.Contains(t, buf.String(), `"level":"info"`)
	})
}
