package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port         string `yaml:"port"`
	DatabaseURL  string `yaml:"database_url"`
	DataDir      string `yaml:"data_dir"`
	CacheDir     string `yaml:"cache_dir"`
	MasterKeyHex string `yaml:"master_key_hex"`
	LogLevel     string `yaml:"log_level"`
}

// Load arma la configuración: primero el YAML de CONFIG_FILE (si hay),
// después las variables de entorno, que pisan lo del archivo.
func Load() (Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	override(&cfg.Port, "PORT")
	override(&cfg.DatabaseURL, "DATABASE_URL")
	override(&cfg.DataDir, "DATA_DIR")
	override(&cfg.CacheDir, "CACHE_DIR")
	override(&cfg.MasterKeyHex, "MASTER_KEY_HEX")
	override(&cfg.LogLevel, "LOG_LEVEL")

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	// Normalizamos por si alguien manda ":8080"
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(cfg.DataDir, "cache")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func loadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// override reemplaza target con la variable key si viene no vacía.
func override(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}
