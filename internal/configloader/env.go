package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/sqlxfmt/pkg/config"
)

// envVarPrefix is the prefix for all sqlxfmt environment variables.
const envVarPrefix = "SQLX_FMT_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"PATH":                {field: "paths", typ: envTypeSlice},
	"SQRUFF_CONFIG":       {field: "sqruff.config", typ: envTypeString},
	"SQRUFF_COMMAND":      {field: "sqruff.command", typ: envTypeString},
	"LITERAL_INDENTATION": {field: "literal_indentation", typ: envTypeInt},
	"MACROS":              {field: "macros", typ: envTypeSlice},
	"FAIL_ON_UNFORMATTED": {field: "fail_on_unformatted", typ: envTypeBool},
	"QUOTED_AS_RAW":       {field: "quoted_as_raw", typ: envTypeBool},
	"JOBS":                {field: "jobs", typ: envTypeInt},
	"IGNORE":              {field: "ignore", typ: envTypeSlice},
	"MARKDOWN":            {field: "markdown", typ: envTypeBool},
	"CACHE":               {field: "cache.enabled", typ: envTypeBool},
	"CACHE_DIR":           {field: "cache.dir", typ: envTypeString},
	"NO_BACKUPS":          {field: "no_backups", typ: envTypeBool},
	"BACKUPS_ENABLED":     {field: "backups.enabled", typ: envTypeBool},
	"BACKUPS_MODE":        {field: "backups.mode", typ: envTypeString},
	"FORMAT":              {field: "format", typ: envTypeString},
	"DRY_RUN":             {field: "dry_run", typ: envTypeBool},
}

// EnvVar returns the full environment variable name for a suffix.
func EnvVar(suffix string) string {
	return envVarPrefix + suffix
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with SQLX_FMT_ (e.g., SQLX_FMT_MACROS).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "sqruff.config":
		cfg.Sqruff.Config = value
	case "sqruff.command":
		cfg.Sqruff.Command = value
	case "cache.dir":
		cfg.Cache.Dir = value
	case "backups.mode":
		cfg.Backups.Mode = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "fail_on_unformatted":
		cfg.FailOnUnformatted = config.BoolPtr(value)
	case "quoted_as_raw":
		cfg.QuotedAsRaw = config.BoolPtr(value)
	case "markdown":
		cfg.Markdown = value
	case "cache.enabled":
		cfg.Cache.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "dry_run":
		cfg.DryRun = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "literal_indentation":
		cfg.LiteralIndentation = config.IntPtr(value)
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "paths":
		cfg.Paths = value
	case "macros":
		cfg.Macros = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}
