// Package pipeline runs one file through the rewrite engine with the safety
// steps around it: read and hash, rewrite, diff, concurrent-modification
// check, backup and atomic write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/sqlxfmt/pkg/fix"
	"github.com/yaklabco/sqlxfmt/pkg/fsutil"
	"github.com/yaklabco/sqlxfmt/pkg/rewrite"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates no syntax tree could be built.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")

	// ErrUnsupported indicates a file type no rewriter handles.
	ErrUnsupported = errors.New("unsupported file type")
)

// Mode selects whether changed files are written.
type Mode int

const (
	// ModeFormat writes changed files.
	ModeFormat Mode = iota

	// ModeCheck only reports which files would change.
	ModeCheck
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeCheck {
		return "check"
	}
	return "format"
}

// Rewriter rewrites one document. *rewrite.Engine and *markdown.Rewriter
// implement it.
type Rewriter interface {
	Rewrite(ctx context.Context, path string, content []byte) (*rewrite.Result, error)
}

// Options controls pipeline behavior.
type Options struct {
	Mode Mode

	// DryRun computes changes without writing, even in ModeFormat.
	DryRun bool

	// Diff attaches a unified diff to results with changes.
	Diff bool

	// Backup selects how originals are kept before writing.
	// BackupModeNone (or "") disables backups.
	Backup fsutil.BackupMode
}

// Writes reports whether changed files are written to disk.
func (o Options) Writes() bool {
	return o.Mode == ModeFormat && !o.DryRun
}

// Result is the outcome of processing one file.
type Result struct {
	Path string

	// Snapshot is the file state before processing (nil for ProcessContent).
	Snapshot *fsutil.Snapshot

	// Original and Content are the document before and after rewriting.
	Original []byte
	Content  []byte

	// Changed is true if rewriting altered the document.
	Changed bool

	// Written is true if the new content was written to disk.
	Written bool

	// Skipped is true if a write was abandoned; SkipReason says why.
	Skipped    bool
	SkipReason string

	// BackupCreated is true if a backup was written for this file.
	BackupCreated bool

	// Occurrences is the number of literals found.
	Occurrences int

	// Formatted is the number of literals the formatter succeeded on.
	Formatted int

	// Failures lists literals left unchanged because formatting failed.
	Failures []rewrite.Failure

	// Diff is set when Options.Diff is true and the file changed.
	Diff *fix.Diff
}

// Status returns a short human-readable status.
func (r *Result) Status() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	case r.Changed:
		return "unformatted"
	default:
		return "ok"
	}
}

// Pipeline dispatches files to a rewriter by extension.
type Pipeline struct {
	// Rust rewrites .rs files.
	Rust Rewriter

	// Markdown rewrites .md and .markdown files. Nil disables them.
	Markdown Rewriter
}

// New creates a Pipeline. markdown may be nil.
func New(rust, markdown Rewriter) *Pipeline {
	return &Pipeline{Rust: rust, Markdown: markdown}
}

// Supports reports whether path has an extension the pipeline handles.
func (p *Pipeline) Supports(path string) bool {
	return p.rewriterFor(path) != nil
}

func (p *Pipeline) rewriterFor(path string) Rewriter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rs":
		return p.Rust
	case ".md", ".markdown":
		return p.Markdown
	default:
		return nil
	}
}

// ProcessFile runs the full pipeline for a single file:
//  1. Read and hash the file.
//  2. Rewrite its content.
//  3. Build a diff if requested.
//  4. When writing: check for concurrent modification, back up, write atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts Options) (*Result, error) {
	content, snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap

	if !result.Changed || !opts.Writes() {
		return result, nil
	}

	stale, err := snap.Stale(ctx)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if stale {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup != "" && opts.Backup != fsutil.BackupModeNone {
		created, err := fsutil.Backup(ctx, path, content, snap.Mode, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.Content, snap.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent rewrites in-memory content without file I/O.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	rw := p.rewriterFor(path)
	if rw == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	res, err := rw.Rewrite(ctx, path, content)
	if err != nil {
		if errors.Is(err, rewrite.ErrParse) {
			return nil, fmt.Errorf("%w: %s: %w", ErrParseFailure, path, err)
		}
		return nil, err
	}

	result := &Result{
		Path:        path,
		Original:    content,
		Content:     res.Content,
		Changed:     res.Changed(),
		Occurrences: len(res.Occurrences),
		Formatted:   res.Formatted,
		Failures:    res.Failures,
	}

	if opts.Diff && result.Changed {
		result.Diff = fix.GenerateDiff(path, content, res.Content)
	}

	return result, nil
}

func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}
