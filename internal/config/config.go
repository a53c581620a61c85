package config

import "os"

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
}

// Load reads configuration from environment variables.
func Load() Config {
	addr := os.Getenv("FRUIT_SHOP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}
}
