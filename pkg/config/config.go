package config

import "os"

type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDBName     string
	PostgresConnStr string
	JWTSecret       string
	SMTPHost        string
	SMTPPort        string
	SMTPUser        string
	SMTPPassword    string
	SMTPFrom        string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDBName:     getEnv("MONGO_DB_NAME", "fridayblog"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:       getEnv("JWT_SECRET", "supersecretjwtkey"),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUser:        getEnv("SMTP_USER", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:        getEnv("SMTP_FROM", "no-reply@fridayblog.dev"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
