package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/odpf/salt/log"
	"github.com/sirupsen/logrus"

	"github.com/odpf/jobpack/config"
)

var levels = map[config.LogLevel]int{
	config.LogLevelDebug:   0,
	config.LogLevelInfo:    1,
	config.LogLevelWarning: 2,
	config.LogLevelError:   3,
	config.LogLevelFatal:   4,
}

type defaultLogger struct {
	writer   io.Writer
	level    config.LogLevel
	exitFunc func(int)
}

func (d defaultLogger) Debug(msg string, args ...interface{}) {
	c := color.New(color.FgHiBlack)
	d.write(config.LogLevelDebug, c, msg, args...)
}

func (d defaultLogger) Info(msg string, args ...interface{}) {
	c := color.New(color.FgWhite)
	d.write(config.LogLevelInfo, c, msg, args...)
}

func (d defaultLogger) Warn(msg string, args ...interface{}) {
	c := color.New(color.FgYellow)
	d.write(config.LogLevelWarning, c, msg, args...)
}

func (d defaultLogger) Error(msg string, args ...interface{}) {
	c := color.New(color.FgRed)
	d.write(config.LogLevelError, c, msg, args...)
}

func (d defaultLogger) Fatal(msg string, args ...interface{}) {
	c := color.New(color.FgRed)
	d.write(config.LogLevelFatal, c, msg, args...)
	d.exitFunc(1)
}

func (d defaultLogger) Level() string {
	return d.level.String()
}

func (d defaultLogger) Writer() io.Writer {
	return d.writer
}

func (d defaultLogger) write(level config.LogLevel, c *color.Color, msg string, args ...interface{}) {
	if levels[level] < levels[d.level] {
		return
	}
	plainMessage := fmt.Sprintf(msg, args...)
	c.Fprintln(d.writer, plainMessage)
}

// jsonLogger formats printf style messages before handing them to logrus
type jsonLogger struct {
	logger *log.Logrus
}

func (j jsonLogger) Debug(msg string, args ...interface{}) {
	j.logger.Debug(fmt.Sprintf(msg, args...))
}

func (j jsonLogger) Info(msg string, args ...interface{}) {
	j.logger.Info(fmt.Sprintf(msg, args...))
}

func (j jsonLogger) Warn(msg string, args ...interface{}) {
	j.logger.Warn(fmt.Sprintf(msg, args...))
}

func (j jsonLogger) Error(msg string, args ...interface{}) {
	j.logger.Error(fmt.Sprintf(msg, args...))
}

func (j jsonLogger) Fatal(msg string, args ...interface{}) {
	j.logger.Fatal(fmt.Sprintf(msg, args...))
}

func (j jsonLogger) Level() string {
	return j.logger.Level()
}

func (j jsonLogger) Writer() io.Writer {
	return j.logger.Writer()
}

// NewClientLogger initializes client logger
func NewClientLogger() log.Logger {
	return NewClientLoggerWithWriter(config.LogConfig{Level: config.LogLevelInfo}, os.Stdout)
}

// NewClientLoggerWithWriter initializes client logger based on log configuration
func NewClientLoggerWithWriter(logConfig config.LogConfig, w io.Writer) log.Logger {
	level := config.LogLevel(strings.ToUpper(logConfig.Level.String()))
	if _, ok := levels[level]; !ok {
		level = config.LogLevelInfo
	}

	if logConfig.Format == config.LogFormatJSON {
		return &jsonLogger{
			logger: log.NewLogrus(
				log.LogrusWithLevel(strings.ToLower(level.String())),
				log.LogrusWithWriter(w),
				log.LogrusWithFormatter(&logrus.JSONFormatter{}),
			),
		}
	}
	return &defaultLogger{
		writer:   w,
		level:    level,
		exitFunc: os.Exit,
	}
}
