package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Log         bool
	LogLevel    string
	HTTPTimeout time.Duration

	ViaCepURL    string
	ApiCepURL    string
	OpenCepURL   string
	BrasilApiURL string

	RedisURL    string
	RabbitMQURL string
	CORSOrigins []string
}

// Load lê o .env (se existir) e depois as variáveis de ambiente.
func Load(files ...string) Config {
	godotenv.Load(files...)

	return Config{
		Port:        getEnv("PORT", "8080"),
		Log:         getBool("CEP_LOG", false),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPTimeout: getDuration("HTTP_TIMEOUT", 10*time.Second),

		ViaCepURL:    os.Getenv("VIACEP_URL"),
		ApiCepURL:    os.Getenv("APICEP_URL"),
		OpenCepURL:   os.Getenv("OPENCEP_URL"),
		BrasilApiURL: os.Getenv("BRASILAPI_URL"),

		RedisURL:    os.Getenv("REDIS_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		CORSOrigins: getList("CORS_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
