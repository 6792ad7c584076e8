// Package appconfig layers CLI flags, ESCRECEIPT_* environment variables,
// an escreceipt.yaml file and built-in defaults into one Config via
// spf13/viper, and builds the zap logger every subsystem logs through —
// grounded on enesaygn-device-service-v3's internal/config and
// internal/utils/logger.go viper/zap/lumberjack wiring, the richest
// ambient stack found in the example pack.
package appconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the resolved configuration for one escreceipt render run.
type Config struct {
	DPI        uint16 `mapstructure:"dpi"`
	WidthDots  uint32 `mapstructure:"width"`
	Adapter    string `mapstructure:"adapter"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	LogFile    string `mapstructure:"log_file"`
}

// Defaults matches a typical 80mm thermal printer at 203 DPI.
func Defaults() Config {
	return Config{
		DPI:       203,
		WidthDots: 576,
		Adapter:   "stub",
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load layers flags > env (ESCRECEIPT_*) > escreceipt.yaml (searched in the
// given configDir and the working directory) > Defaults.
func Load(configDir string, flags *viper.Viper) (Config, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("width", d.WidthDots)
	v.SetDefault("adapter", d.Adapter)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("log_file", d.LogFile)

	v.SetEnvPrefix("ESCRECEIPT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("escreceipt")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("appconfig: reading config: %w", err)
		}
	}

	if flags != nil {
		for k, val := range flags.AllSettings() {
			v.Set(k, val)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("appconfig: unmarshal: %w", err)
	}
	return cfg, nil
}

// NewLogger builds a zap.Logger per cfg.LogLevel/LogFormat, writing to
// stderr, or to cfg.LogFile via lumberjack rotation when set.
func NewLogger(cfg Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.LogFormat == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer
	if cfg.LogFile != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core), nil
}
