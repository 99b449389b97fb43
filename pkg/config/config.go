// Package config defines the configuration types for sqlxfmt.
// These types are pure data structures; loading and layering live in
// internal/configloader.
package config

// Defaults.
const (
	DefaultLiteralIndentation = 4
	DefaultSqruffCommand      = "sqruff"
	DefaultSqruffConfig       = ".sqruff"
	DefaultBackupMode         = "sidecar"
)

// DefaultMacros lists the sqlx macros formatted when no macros are configured.
//
//nolint:gochecknoglobals // read-only default list
var DefaultMacros = []string{
	"migrate", "sqlx::migrate",
	"query", "sqlx::query",
	"query_unchecked", "sqlx::query_unchecked",
	"query_as", "sqlx::query_as",
	"query_as_unchecked", "sqlx::query_as_unchecked",
	"query_scalar", "sqlx::query_scalar",
	"query_scalar_unchecked", "sqlx::query_scalar_unchecked",
}

// SqruffConfig configures the external SQL formatter.
type SqruffConfig struct {
	// Command is the sqruff executable.
	Command string `yaml:"command,omitempty"`

	// Config is the sqruff config file, used only if it exists.
	Config string `yaml:"config,omitempty"`
}

// BackupsConfig controls backup behavior when writing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode,omitempty"` // "sidecar" or "none"
}

// CacheConfig controls the on-disk formatter result cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`

	// Dir overrides the cache location ($XDG_CACHE_HOME/sqlxfmt).
	Dir string `yaml:"dir,omitempty"`
}

// Config is the root configuration structure for sqlxfmt.
type Config struct {
	// Macros lists the invocation names whose literals are formatted.
	Macros []string `yaml:"macros,omitempty"`

	// LiteralIndentation is the extra indent of multi-line literal bodies.
	LiteralIndentation *int `yaml:"literal_indentation,omitempty"`

	// QuotedAsRaw sets the raw flag passed to the formatter for quoted literals.
	QuotedAsRaw *bool `yaml:"quoted_as_raw,omitempty"`

	// Sqruff configures the external formatter.
	Sqruff SqruffConfig `yaml:"sqruff"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Markdown enables formatting of Rust code fences in Markdown files.
	Markdown bool `yaml:"markdown,omitempty"`

	// FailOnUnformatted makes `check` exit non-zero when files would change.
	FailOnUnformatted *bool `yaml:"fail_on_unformatted,omitempty"`

	// Backups configures backups of rewritten files.
	Backups BackupsConfig `yaml:"backups"`

	// Cache configures the formatter result cache.
	Cache CacheConfig `yaml:"cache"`

	// CLI-level options (not persisted to config files).

	// Paths are the files or directories to process.
	Paths []string `yaml:"-"`

	// DryRun reports what would change without writing.
	DryRun bool `yaml:"-"`

	// Diff prints unified diffs of pending changes.
	Diff bool `yaml:"-"`

	// Format specifies the report format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// NoBackups disables backup creation.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	indentation := DefaultLiteralIndentation
	quotedAsRaw := true
	failOnUnformatted := true

	return &Config{
		Macros:             append([]string(nil), DefaultMacros...),
		LiteralIndentation: &indentation,
		QuotedAsRaw:        &quotedAsRaw,
		Sqruff: SqruffConfig{
			Command: DefaultSqruffCommand,
			Config:  DefaultSqruffConfig,
		},
		FailOnUnformatted: &failOnUnformatted,
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    DefaultBackupMode,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// Indentation returns the literal indentation, or the default when unset.
func (c *Config) Indentation() int {
	if c == nil || c.LiteralIndentation == nil {
		return DefaultLiteralIndentation
	}
	return *c.LiteralIndentation
}

// QuotedRaw returns the raw flag for quoted literals (default true).
func (c *Config) QuotedRaw() bool {
	if c == nil || c.QuotedAsRaw == nil {
		return true
	}
	return *c.QuotedAsRaw
}

// ShouldFailOnUnformatted returns whether check fails on pending changes
// (default true).
func (c *Config) ShouldFailOnUnformatted() bool {
	if c == nil || c.FailOnUnformatted == nil {
		return true
	}
	return *c.FailOnUnformatted
}

// BackupsEnabled reports whether backups should be written.
func (c *Config) BackupsEnabled() bool {
	return c != nil && c.Backups.Enabled && !c.NoBackups && c.Backups.Mode != "none"
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
