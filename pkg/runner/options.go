// Package runner discovers source files and formats them concurrently.
package runner

import "github.com/yaklabco/sqlxfmt/pkg/pipeline"

// Options controls multi-file processing.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// to discover. Defaults to RustExtensions().
	Extensions []string

	// ExcludeGlobs are glob patterns, relative to WorkingDir, used to skip
	// files or directories. "**" crosses directory boundaries.
	ExcludeGlobs []string

	// SkipDirs are directory names never descended into. Defaults to
	// DefaultSkipDirs(). Hidden directories are always skipped.
	SkipDirs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Pipeline is passed to every ProcessFile call.
	Pipeline pipeline.Options
}

// RustExtensions returns the extensions of Rust source files.
func RustExtensions() []string {
	return []string{".rs"}
}

// MarkdownExtensions returns the extensions of Markdown files.
func MarkdownExtensions() []string {
	return []string{".md", ".markdown"}
}

// DefaultSkipDirs returns directories skipped during discovery.
func DefaultSkipDirs() []string {
	return []string{"target", "node_modules"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return RustExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveSkipDirs() map[string]bool {
	dirs := o.SkipDirs
	if dirs == nil {
		dirs = DefaultSkipDirs()
	}
	set := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		set[d] = true
	}
	return set
}
