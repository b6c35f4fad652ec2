package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	Store StoreConfig
	JWT   JWTConfig
	Email EmailConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type StoreConfig struct {
	// MongoURI selects the hosted document-database client.
	MongoURI  string
	MongoName string

	// Postgres credentials select the JSONB-backed store.
	PGHost     string
	PGPort     string
	PGName     string
	PGUser     string
	PGPassword string
	PGMaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type EmailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	AdminEmail string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("MONGO_DB_NAME", "limobooking")

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional when everything comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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
		Store: StoreConfig{
			MongoURI:   viper.GetString("MONGO_URI"),
			MongoName:  viper.GetString("MONGO_DB_NAME"),
			PGHost:     viper.GetString("DB_HOST"),
			PGPort:     viper.GetString("DB_PORT"),
			PGName:     viper.GetString("DB_NAME"),
			PGUser:     viper.GetString("DB_USER"),
			PGPassword: viper.GetString("DB_PASS"),
			PGMaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:       viper.GetString("SMTP_HOST"),
			Port:       viper.GetInt("SMTP_PORT"),
			User:       viper.GetString("SMTP_USER"),
			Password:   viper.GetString("SMTP_PASS"),
			From:       viper.GetString("EMAIL_FROM"),
			AdminEmail: viper.GetString("ADMIN_EMAIL"),
		},
	}

	return config, nil
}
