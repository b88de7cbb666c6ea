package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Settings are the ambient options that live outside the capture token
// grammar: logging and the telemetry listener. Loaded from depthrig.toml
// and DEPTHRIG_* environment variables.
type Settings struct {
	Config string `toml:"-"`

	LoggingLevel   string `toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSession string `toml:"logging.session" env:"LOGGING_SESSION"`
	LoggingWorker  string `toml:"logging.worker" env:"LOGGING_WORKER"`
	LoggingDevice  string `toml:"logging.device" env:"LOGGING_DEVICE"`
	LoggingConfig  string `toml:"logging.config" env:"LOGGING_CONFIG"`

	TelemetryListen string `toml:"telemetry.listen" env:"TELEMETRY_LISTEN"`
}

// DefaultSettings returns settings with the shipped defaults.
func DefaultSettings() Settings {
	return Settings{
		Config:        "depthrig.toml",
		LoggingLevel:  "info",
		LoggingFormat: "text",
	}
}

// ModuleLevels collects the non-empty per-module level overrides.
func (s Settings) ModuleLevels() map[string]string {
	modules := map[string]string{
		"session": s.LoggingSession,
		"worker":  s.LoggingWorker,
		"device":  s.LoggingDevice,
		"config":  s.LoggingConfig,
	}
	for k, v := range modules {
		if v == "" {
			delete(modules, k)
		}
	}
	return modules
}

// LoadSettings loads configuration with proper precedence: env vars over
// config file over the defaults already present in opts.
func LoadSettings(opts any) error {
	v := reflect.ValueOf(opts).Elem()
	t := v.Type()

	// Get config file path
	var configPath string
	for i := 0; i < v.NumField(); i++ {
		if t.Field(i).Name == "Config" {
			configPath = v.Field(i).String()
			break
		}
	}

	// Load TOML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			var config map[string]any
			if err := toml.Unmarshal(data, &config); err != nil {
				return fmt.Errorf("failed to parse TOML config: %w", err)
			}

			for i := 0; i < v.NumField(); i++ {
				field := v.Field(i)
				fieldType := t.Field(i)

				tomlPath := fieldType.Tag.Get("toml")
				if tomlPath == "" || tomlPath == "-" {
					continue
				}
				if value := getNestedValue(config, tomlPath); value != nil {
					setFieldValue(field, value)
				}
			}
		}
	}

	// Apply environment variable overrides
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if envKey := fieldType.Tag.Get("env"); envKey != "" {
			if envValue := os.Getenv("DEPTHRIG_" + envKey); envValue != "" {
				setFieldValueFromString(field, envValue)
			}
		}
	}

	return nil
}

// getNestedValue retrieves a value from nested map using dot notation.
func getNestedValue(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := data

	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			return nil
		}
	}
	return nil
}

// setFieldValue sets a field value using reflection.
func setFieldValue(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, ok := value.(int64); ok {
			field.SetInt(i)
		} else if i, intOk := value.(int); intOk {
			field.SetInt(int64(i))
		}
	}
}

// setFieldValueFromString sets a field value from string (for env vars).
func setFieldValueFromString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(i)
		}
	}
}

// LoadLoggingLevels reads the [logging] section of a TOML config file into
// a level string and per-module overrides, for the runtime config watcher.
// Returns defaults if the file doesn't exist or can't be parsed.
func LoadLoggingLevels(configPath string) (string, map[string]string) {
	level := "info"
	modules := make(map[string]string)

	if configPath == "" {
		return level, modules
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return level, modules
	}

	var rawConfig struct {
		Logging map[string]string `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &rawConfig); err != nil {
		return level, modules
	}

	for key, value := range rawConfig.Logging {
		switch key {
		case "level":
			level = value
		case "format":
			// format changes require a restart
		default:
			modules[key] = value
		}
	}
	return level, modules
}
