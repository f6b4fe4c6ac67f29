package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	MySQLDSN   string
	RedisAddr  string
	Brokers    []string
	JWTSecret  string
	AdminIDs   []int64
	NoticeTopic string
}

// Load reads configuration from the environment, with a best-effort .env file
// for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getEnv("PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "root:@tcp(127.0.0.1:3306)/storefront-db?parseTime=true"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		Brokers:     KafkaBrokerURLs(),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		AdminIDs:    parseAdminIDs(os.Getenv("ADMIN_IDS")),
		NoticeTopic: getEnv("NOTICE_TOPIC", "notice-topic"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseAdminIDs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
