package utils

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Rabbit   RabbitConfig
	Catalog  CatalogConfig
	JWT      JWTConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLMinutes int
}

type RabbitConfig struct {
	URL string
}

type CatalogConfig struct {
	BaseURL      string
	APIKey       string
	ImageBaseURL string
	Language     string
}

type JWTConfig struct {
	Secret string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "cinema-tickets")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_TTL_MINUTES", 15)
	viper.SetDefault("CATALOG_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("CATALOG_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500")
	viper.SetDefault("CATALOG_LANGUAGE", "en-US")

	// A missing .env is fine; environment variables still apply.
	if err := viper.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:       viper.GetString("REDIS_ADDR"),
			Password:   viper.GetString("REDIS_PASSWORD"),
			DB:         viper.GetInt("REDIS_DB"),
			TTLMinutes: viper.GetInt("REDIS_TTL_MINUTES"),
		},
		Rabbit: RabbitConfig{
			URL: viper.GetString("RABBITMQ_URL"),
		},
		Catalog: CatalogConfig{
			BaseURL:      viper.GetString("CATALOG_BASE_URL"),
			APIKey:       viper.GetString("CATALOG_API_KEY"),
			ImageBaseURL: viper.GetString("CATALOG_IMAGE_BASE_URL"),
			Language:     viper.GetString("CATALOG_LANGUAGE"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
	}

	return config, nil
}
