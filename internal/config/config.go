package config

import (
	"os"
)

type Config struct {
	Port             string
	LogLevel         string
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:             getEnv("PORT", "9446"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PostgresAddress:  getEnv("POSTGRES_ADDRESS", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5433"),
		PostgresDB:       getEnv("POSTGRES_DB", "postgres"),
		PostgresUsername: getEnv("POSTGRES_USERNAME", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "testpassword"),
	}

	return &env, nil
}

// ConnectionString assembles the Postgres DSN used by the server and the
// migration runner.
func (c *Config) ConnectionString() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && len(value) != 0 {
		return value
	}
	return defaultVal
}
