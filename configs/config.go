package configs

import (
	"errors"
	"time"

	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	JWT struct {
		AccessSecret  string        `mapstructure:"access-secret"`
		RefreshSecret string        `mapstructure:"refresh-secret"`
		AccessTTL     time.Duration `mapstructure:"access-ttl"`
		RefreshTTL    time.Duration `mapstructure:"refresh-ttl"`
	} `mapstructure:"jwt"`
	Uploads struct {
		Dir        string `mapstructure:"dir"`
		PublicPath string `mapstructure:"public-path"`
	} `mapstructure:"uploads"`
}

var AppConfig Config

func LoadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("jwt.access-ttl", 15*time.Minute)
	viper.SetDefault("jwt.refresh-ttl", 7*24*time.Hour)
	viper.SetDefault("uploads.dir", "./public/uploads")
	viper.SetDefault("uploads.public-path", "/public/uploads")

	viper.AutomaticEnv()

	var fileLookupError viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &fileLookupError) {
			logger.Log.Fatal("config file not found", zap.Error(err))
		}
		logger.Log.Fatal("failed to read config", zap.Error(err))
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		logger.Log.Fatal("failed to unmarshal config", zap.Error(err))
	}

	if AppConfig.JWT.AccessSecret == "" || AppConfig.JWT.RefreshSecret == "" {
		logger.Log.Fatal("jwt secrets must be configured")
	}
}
