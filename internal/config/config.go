package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port    string
	AppName string `mapstructure:"app_name"`
}

type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
	Path     string // sqlite database file
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret              string
	AccessTokenMinutes  int `mapstructure:"access_token_minutes"`
	RefreshTokenMinutes int `mapstructure:"refresh_token_minutes"`
}

func LoadConfig() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", ":8000")
	viper.SetDefault("server.app_name", "Spendbook API")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "data/spendbook.db")
	viper.SetDefault("jwt.access_token_minutes", 60)
	viper.SetDefault("jwt.refresh_token_minutes", 1440)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Error reading config file, %s", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	// Weak signing keys are a startup error, not a runtime surprise.
	if len(config.JWT.Secret) < 32 {
		log.Fatalf("jwt.secret must be at least 32 characters long")
	}

	return &config
}
