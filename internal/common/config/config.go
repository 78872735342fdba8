package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP struct {
		Port int
	}
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string
	}
	Redis struct {
		Addr     string
		Password string
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
	}
	Auth struct {
		Secret    string
		AccessTTL time.Duration
	}
	Migrations struct {
		Dir string
	}
	SeatHold struct {
		TTL time.Duration
	}
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return def
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := &Config{}

	cfg.HTTP.Port = getEnvInt("HTTP_PORT", 8080)

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "railway_user")
	cfg.Database.Password = getEnv("DB_PASSWORD", "railway_pass")
	cfg.Database.Name = getEnv("DB_NAME", "railway_db")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")

	cfg.RabbitMQ.Host = getEnv("RABBITMQ_HOST", "localhost")
	cfg.RabbitMQ.Port = getEnvInt("RABBITMQ_PORT", 5672)
	cfg.RabbitMQ.User = getEnv("RABBITMQ_USER", "guest")
	cfg.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", "guest")

	cfg.Auth.Secret = getEnv("JWT_SECRET", "super-secret-key")
	cfg.Auth.AccessTTL = getEnvDuration("JWT_ACCESS_TTL", time.Hour)

	cfg.Migrations.Dir = getEnv("MIGRATIONS_DIR", "migrations")

	cfg.SeatHold.TTL = getEnvDuration("SEAT_HOLD_TTL", 10*time.Minute)

	return cfg, nil
}

func (c *Config) Print() {
	fmt.Printf("Database: %s@%s:%d/%s\n", c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name)
	fmt.Printf("Redis: %s\n", c.Redis.Addr)
	fmt.Printf("RabbitMQ: amqp://%s@%s:%d\n", c.RabbitMQ.User, c.RabbitMQ.Host, c.RabbitMQ.Port)
	fmt.Printf("HTTP Port: %d\n", c.HTTP.Port)
}
