package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	HTTPPort       string
	Environment    string
	MigrationsPath string
	TelegramToken  string
	StaffChatID    int64
}

func Load() (*Config, error) {
	// Intentamos cargar el .env (se ignora el error si el archivo no existe)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No se encontró .env, usando variables de entorno")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		HTTPPort:       os.Getenv("HTTP_PORT"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	// Valores por defecto
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if chat := os.Getenv("STAFF_CHAT_ID"); chat != "" {
		var id int64
		if _, err := fmt.Sscan(chat, &id); err != nil {
			return nil, fmt.Errorf("STAFF_CHAT_ID inválido: %w", err)
		}
		cfg.StaffChatID = id
	}

	// Campos obligatorios
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
