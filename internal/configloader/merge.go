package configloader

import "github.com/yaklabco/sqlxfmt/pkg/config"

// merge combines two configurations, with override taking precedence over base.
//   - Pointer fields: override wins when non-nil
//   - Strings and ints: override wins when non-zero
//   - Slices: override replaces base entirely when non-nil
//   - Plain booleans: only true can be layered on
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Macros != nil {
		result.Macros = override.Macros
	}
	if override.LiteralIndentation != nil {
		result.LiteralIndentation = override.LiteralIndentation
	}
	if override.QuotedAsRaw != nil {
		result.QuotedAsRaw = override.QuotedAsRaw
	}
	if override.FailOnUnformatted != nil {
		result.FailOnUnformatted = override.FailOnUnformatted
	}

	if override.Sqruff.Command != "" {
		result.Sqruff.Command = override.Sqruff.Command
	}
	if override.Sqruff.Config != "" {
		result.Sqruff.Config = override.Sqruff.Config
	}

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Markdown {
		result.Markdown = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	if override.Cache.Enabled {
		result.Cache.Enabled = true
	}
	if override.Cache.Dir != "" {
		result.Cache.Dir = override.Cache.Dir
	}

	// CLI-only fields.
	if override.Paths != nil {
		result.Paths = override.Paths
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.Diff {
		result.Diff = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
