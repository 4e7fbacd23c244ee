package config

import "github.com/spf13/viper"

// Configuration is the full environment surface of the service. Anything not
// listed here is not a recognized option.
type Configuration struct {
	Port string

	Database string // "postgres", "sqlite3" or "memory"
	DbHost   string
	DbPort   string
	DbUser   string
	DbPass   string
	DbName   string

	// CloudSQLConnectionName switches the postgres connection to the managed
	// proxy's unix socket (/cloudsql/<name>) instead of host/port.
	CloudSQLConnectionName string

	// RabbitMQURL is optional; without it the API runs with event
	// publication and the consumer disabled.
	RabbitMQURL string

	AutoMigrate bool
}

// Load reads the configuration from the environment.
func Load() Configuration {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE", "sqlite3")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "appuser")
	v.SetDefault("DB_NAME", "matchamania")
	v.SetDefault("AUTOMIGRATE", true)

	return Configuration{
		Port:                   v.GetString("PORT"),
		Database:               v.GetString("DATABASE"),
		DbHost:                 v.GetString("DB_HOST"),
		DbPort:                 v.GetString("DB_PORT"),
		DbUser:                 v.GetString("DB_USER"),
		DbPass:                 v.GetString("DB_PASSWORD"),
		DbName:                 v.GetString("DB_NAME"),
		CloudSQLConnectionName: v.GetString("CLOUD_SQL_CONNECTION_NAME"),
		RabbitMQURL:            v.GetString("RABBITMQ_URL"),
		AutoMigrate:            v.GetBool("AUTOMIGRATE"),
	}
}
