// Package config provides configuration management for the matchups service.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("datasource", validateDataSource)
	v.RegisterValidation("route", validateRoute)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateDataSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "file", "http":
		return true
	default:
		return false
	}
}

// validateRoute requires an absolute path without a query string
func validateRoute(fl validator.FieldLevel) bool {
	route := fl.Field().String()
	return strings.HasPrefix(route, "/") && !strings.ContainsAny(route, "?# ")
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	switch cfg.Data.Source {
	case "file":
		if cfg.Data.Path == "" {
			return fmt.Errorf("data.path is required when data.source is 'file'")
		}
	case "http":
		if cfg.Data.URL == "" {
			return fmt.Errorf("data.url is required when data.source is 'http'")
		}
	}

	if cfg.Cache.Enabled && cfg.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be positive when the cache is enabled")
	}

	if cfg.Cache.RefreshSchedule != "" {
		if !cfg.Cache.Enabled {
			return fmt.Errorf("cache.refresh_schedule requires cache.enabled")
		}
		if _, err := cron.ParseStandard(cfg.Cache.RefreshSchedule); err != nil {
			return fmt.Errorf("invalid cache.refresh_schedule: %w", err)
		}
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" {
			return fmt.Errorf("metrics.path is required when metrics are enabled")
		}
		if cfg.Metrics.Path == cfg.Render.Route {
			return fmt.Errorf("metrics.path cannot equal render.route")
		}
	}

	if cfg.IsProduction() && cfg.Render.LegacyEscaping {
		return fmt.Errorf("production environment requires render.legacy_escaping to be disabled")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "datasource":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: file, http\n", field)
		case "route":
			errMsg += fmt.Sprintf("- Field '%s' must be an absolute path, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
