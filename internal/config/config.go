package config

import (
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort            string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	JWTSecret           string `env:"JWT_SECRET,required"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	RedisAddr           string `env:"REDIS_ADDR"`
	RedisPassword       string `env:"REDIS_PASSWORD"`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`
	// ChatBlocklist permite reemplazar la lista de palabras vetadas por
	// defecto, separadas por coma. La lista es política, no código.
	ChatBlocklist string `env:"CHAT_BLOCKLIST"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BlocklistWords devuelve la lista configurada, o nil si se debe usar la
// lista por defecto.
func (c *Config) BlocklistWords() []string {
	if strings.TrimSpace(c.ChatBlocklist) == "" {
		return nil
	}
	var words []string
	for _, w := range strings.Split(c.ChatBlocklist, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
