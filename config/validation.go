package config

import "fmt"

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every field the server cannot run without is set.
func ValidateConfig(cfg *Config) error {
	required := map[string]string{
		"ServerPort": cfg.ServerPort,
		"DBHost":     cfg.DBHost,
		"DBPort":     cfg.DBPort,
		"DBUser":     cfg.DBUser,
		"DBName":     cfg.DBName,
		"JWTSecret":  cfg.JWTSecret,
	}
	for field, value := range required {
		if value == "" {
			return ValidationError{Field: field, Message: "is required"}
		}
	}

	if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
		return ValidationError{Field: "Redis", Message: "either REDIS_URL or REDIS_HOST/REDIS_PORT must be set"}
	}

	return nil
}
