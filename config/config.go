package config

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/ini.v1"
)

type Config struct {
	Server ServerConf `ini:"server"`
	Log    LogConf    `ini:"log"`
}

type ServerConf struct {
	Host     string        `ini:"host"`
	Port     int           `ini:"port"`
	Backlog  int           `ini:"backlog"`
	Interval time.Duration `ini:"interval"`
}

type LogConf struct {
	Level string `ini:"level"`
}

// Default は固定値。設定ファイルがなければこれがそのまま使われる
func Default() *Config {
	return &Config{
		Server: ServerConf{
			Host:     "0.0.0.0",
			Port:     8080,
			Backlog:  5,
			Interval: time.Second,
		},
		Log: LogConf{
			Level: "info",
		},
	}
}

// Load は Default の上に ini ファイルの値を重ねる。ファイルにないキーは既定値のまま
func Load(fileName string) (*Config, error) {
	cfg := Default()
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", fileName, err)
	}
	if err := iniFile.StrictMapTo(cfg); err != nil {
		return nil, fmt.Errorf("failed to map config %s: %w", fileName, err)
	}
	// MapTo は 0 以下の duration を黙って読み飛ばすので interval は直接読む
	if key, err := iniFile.Section("server").GetKey("interval"); err == nil {
		interval, err := key.Duration()
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", key.String(), err)
		}
		cfg.Server.Interval = interval
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.Backlog <= 0 {
		return fmt.Errorf("invalid backlog: %d", c.Server.Backlog)
	}
	if c.Server.Interval <= 0 {
		return fmt.Errorf("invalid interval: %s", c.Server.Interval)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (l LogConf) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}
