package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// ZapLevel parses Level, defaulting to warn when empty so a successful run
// prints nothing but its confirmation line.
func (c LoggingConfig) ZapLevel() (zapcore.Level, error) {
	if c.Level == "" {
		return zapcore.WarnLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return lvl, nil
}

// Validate validates the logging configuration.
func (c LoggingConfig) Validate() error {
	if _, err := c.ZapLevel(); err != nil {
		return err
	}
	switch c.Format {
	case "", "json", "console":
		return nil
	default:
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Format)
	}
}

// ZapConfig builds a production zap config honouring Level and Format.
// verbose forces debug level.
func (c LoggingConfig) ZapConfig(verbose bool) (zap.Config, error) {
	zc := zap.NewProductionConfig()
	lvl, err := c.ZapLevel()
	if err != nil {
		return zc, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	if c.Format != "" {
		zc.Encoding = c.Format
	}
	if zc.Encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc, nil
}
