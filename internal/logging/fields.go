// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Literal fields.
	FieldLiteral    = "literal"
	FieldInvocation = "invocation"
	FieldLine       = "line"
	FieldShape      = "shape"
	FieldHashes     = "hashes"
	FieldFence      = "fence"

	// Run fields.
	FieldMode    = "mode"
	FieldDryRun  = "dry_run"
	FieldJobs    = "jobs"
	FieldMacros  = "macros"
	FieldCommand = "command"

	// Statistics fields.
	FieldFilesDiscovered   = "files_discovered"
	FieldFilesChanged      = "files_changed"
	FieldLiteralsFound     = "literals_found"
	FieldLiteralsFormatted = "literals_formatted"
	FieldLiteralsFailed    = "literals_failed"
	FieldCacheHits         = "cache_hits"
	FieldCacheMisses       = "cache_misses"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
