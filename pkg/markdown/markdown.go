// Package markdown formats sqlx literals inside Rust code fences of Markdown
// documents. Fence bodies are rewritten by a Rust rewriter and the resulting
// edits are shifted back into document coordinates.
package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/sqlxfmt/internal/logging"
	"github.com/yaklabco/sqlxfmt/pkg/fix"
	"github.com/yaklabco/sqlxfmt/pkg/langdetect"
	"github.com/yaklabco/sqlxfmt/pkg/rewrite"
)

// RustRewriter rewrites a Rust document. *rewrite.Engine implements it.
type RustRewriter interface {
	Rewrite(ctx context.Context, path string, content []byte) (*rewrite.Result, error)
}

// Fence is a fenced code block whose body is one contiguous byte range.
type Fence struct {
	Info  string
	Body  []byte
	Start int // byte offset of the body in the document
	Line  int // 0-based line of the first body line
}

// Rewriter rewrites the Rust fences of Markdown documents.
type Rewriter struct {
	Rust RustRewriter
}

// New creates a Rewriter.
func New(rust RustRewriter) *Rewriter {
	return &Rewriter{Rust: rust}
}

// Fences returns the fenced code blocks of content that hold Rust.
// Fences nested in containers whose lines carry a prefix (block quotes,
// list items) are skipped: a rewritten body could not keep that prefix.
func Fences(content []byte) []Fence {
	doc := goldmark.DefaultParser().Parse(text.NewReader(content))

	var fences []Fence
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var info string
		if block.Info != nil {
			info = string(block.Info.Segment.Value(content))
		}

		start, end, ok := contiguous(content, block.Lines())
		if !ok {
			return ast.WalkSkipChildren, nil
		}
		body := content[start:end]
		if !langdetect.IsRust(info, body) {
			return ast.WalkSkipChildren, nil
		}

		fences = append(fences, Fence{
			Info:  info,
			Body:  body,
			Start: start,
			Line:  bytes.Count(content[:start], []byte("\n")),
		})
		return ast.WalkSkipChildren, nil
	})

	return fences
}

// contiguous returns the byte range spanned by lines when they follow each
// other without gaps or padding and the first one starts a source line.
func contiguous(content []byte, lines *text.Segments) (int, int, bool) {
	if lines == nil || lines.Len() == 0 {
		return 0, 0, false
	}

	first := lines.At(0)
	if first.Start > 0 && content[first.Start-1] != '\n' {
		return 0, 0, false
	}
	end := first.Stop
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Padding != 0 || (i > 0 && seg.Start != end) {
			return 0, 0, false
		}
		end = seg.Stop
	}
	return first.Start, end, true
}

// Rewrite formats the sqlx literals of every Rust fence in content.
// A fence that cannot be parsed is logged and left unchanged. Offsets and
// lines of the returned occurrences refer to the whole document.
func (r *Rewriter) Rewrite(ctx context.Context, path string, content []byte) (*rewrite.Result, error) {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	result := &rewrite.Result{Content: content}
	builder := fix.NewEditBuilder()

	for _, fence := range Fences(content) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rewrite %s: %w", path, err)
		}

		res, err := r.Rust.Rewrite(logging.With(ctx, logging.FieldFence, fence.Line+1), path, fence.Body)
		if errors.Is(err, rewrite.ErrParse) {
			logger.Warn("skipping rust code block",
				logging.FieldLine, fence.Line+1,
				logging.FieldError, err)
			continue
		}
		if err != nil {
			return nil, err
		}

		for i := range res.Occurrences {
			relocate(&res.Occurrences[i], fence)
		}
		for i := range res.Failures {
			relocate(&res.Failures[i].Occurrence, fence)
		}
		result.Occurrences = append(result.Occurrences, res.Occurrences...)
		result.Failures = append(result.Failures, res.Failures...)
		result.Formatted += res.Formatted
		result.HasSyntaxErrors = result.HasSyntaxErrors || res.HasSyntaxErrors

		fenceEdits := &fix.EditBuilder{Edits: res.Edits}
		fenceEdits.Shift(fence.Start)
		builder.Edits = append(builder.Edits, fenceEdits.Edits...)
	}

	edits, err := fix.PrepareEdits(builder.Edits, len(content))
	if err != nil {
		return nil, fmt.Errorf("collecting fence edits: %w", err)
	}
	result.Edits = edits
	result.Content = fix.ApplyEdits(content, edits)

	return result, nil
}

func relocate(occ *rewrite.Occurrence, fence Fence) {
	occ.Range.StartOffset += fence.Start
	occ.Range.EndOffset += fence.Start
	occ.Start.Line += fence.Line
}
