package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: TYPELINT_[SECTION]_[KEY] (e.g., TYPELINT_EXPORTS_LOOKAHEAD).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.ProjectConfig, "TYPELINT_PROJECT_CONFIG")
	setEnvInt(&cfg.Workers, "TYPELINT_WORKERS")

	setEnvInt(&cfg.Exports.Lookahead, "TYPELINT_EXPORTS_LOOKAHEAD")
	setEnvToggle(&cfg.Exports.Toggle, "TYPELINT_EXPORTS_ENABLED")

	setEnvInt(&cfg.Duplicates.MinFields, "TYPELINT_DUPLICATES_MIN_FIELDS")
	setEnvBool(&cfg.Duplicates.FailOnMatch, "TYPELINT_DUPLICATES_FAIL_ON_MATCH")
	setEnvToggle(&cfg.Duplicates.Toggle, "TYPELINT_DUPLICATES_ENABLED")

	setEnvToggle(&cfg.Barrel.Toggle, "TYPELINT_BARREL_ENABLED")
	setEnvToggle(&cfg.TypeImports, "TYPELINT_TYPE_IMPORTS_ENABLED")
	setEnvToggle(&cfg.InlineTypes, "TYPELINT_INLINE_TYPES_ENABLED")

	setEnvDuration(&cfg.Watch.Debounce, "TYPELINT_WATCH_DEBOUNCE")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvToggle(target *Toggle, key string) {
	if _, ok := os.LookupEnv(key); !ok {
		return
	}
	enabled := target.IsEnabled()
	setEnvBool(&enabled, key)
	target.Enabled = &enabled
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
