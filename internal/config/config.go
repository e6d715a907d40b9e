package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type AssistConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Voice   string `mapstructure:"voice"`
}

type Config struct {
	Mode         string        `mapstructure:"mode"`
	LogLevel     string        `mapstructure:"log_level"`
	Port         int           `mapstructure:"port"`
	StaticPath   string        `mapstructure:"static_path"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	Secret       string        `mapstructure:"secret"`
	AllowOrigins []string      `mapstructure:"allow_origins"`
	AudioFile    string        `mapstructure:"audio_file"`
	AudioDir     string        `mapstructure:"audio_dir"`
	ICEServers   []ICEServer   `mapstructure:"ice_servers"`
	Assist       AssistConfig  `mapstructure:"assist"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("allow_origins", []string{"*"})
	v.SetDefault("audio_file", "./sample.mp3")
	v.SetDefault("audio_dir", "./audio_files")
	v.SetDefault("assist.model", "gpt-4o-mini")
	v.SetDefault("assist.voice", "alloy")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.ICEServers) == 0 {
		cfg.ICEServers = []ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}}
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Static: %s\n", cfg.Mode, cfg.Port, cfg.StaticPath)
	return &cfg, nil
}
