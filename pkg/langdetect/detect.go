// Package langdetect decides whether a Markdown code fence holds Rust.
// Tagged fences are resolved through go-enry's alias table; untagged fences
// fall back to content patterns and go-enry's classifier.
package langdetect

import (
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

const rust = "Rust"

// rustdocAttributes are fence tags rustdoc treats as Rust code blocks.
//
//nolint:gochecknoglobals // read-only lookup table
var rustdocAttributes = map[string]bool{
	"ignore":           true,
	"no_run":           true,
	"should_panic":     true,
	"compile_fail":     true,
	"edition2015":      true,
	"edition2018":      true,
	"edition2021":      true,
	"edition2024":      true,
	"test_harness":     true,
	"standalone_crate": true,
}

// rustPatterns are strong signals that an untagged block is Rust.
//
//nolint:gochecknoglobals // compiled once
var rustPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*(pub\s+)?(async\s+)?fn\s+\w+`),
	regexp.MustCompile(`(?m)^\s*use\s+[\w:]+(::\{[^}]*\})?\s*;`),
	regexp.MustCompile(`\blet\s+(mut\s+)?\w+\s*(:\s*[\w<>&]+\s*)?=`),
	regexp.MustCompile(`\b(sqlx::)?(query|query_as|query_scalar|migrate)(_unchecked)?!\s*\(`),
	regexp.MustCompile(`\bimpl(<[^>]*>)?\s+\w+`),
}

// classifierCandidates restricts the classifier to languages commonly
// found in fences next to Rust.
//
//nolint:gochecknoglobals // read-only candidate list
var classifierCandidates = []string{
	"Rust", "Go", "Python", "Shell", "JavaScript", "TypeScript",
	"C", "C++", "SQL", "TOML", "JSON", "YAML",
}

// Language resolves a fence info string to a go-enry language name.
// Only the first word is considered, and rustdoc attribute lists such as
// "rust,no_run" or "ignore" resolve to Rust. It returns "" when the tag is
// empty or unknown.
func Language(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}

	tags := strings.Split(strings.Trim(fields[0], "{}."), ",")
	first := strings.ToLower(strings.TrimSpace(tags[0]))
	if first == "" {
		return ""
	}

	if allRustdocAttributes(tags) {
		return rust
	}
	if first == "rs" {
		return rust
	}
	if lang, ok := enry.GetLanguageByAlias(first); ok {
		return lang
	}
	return ""
}

func allRustdocAttributes(tags []string) bool {
	for _, tag := range tags {
		if !rustdocAttributes[strings.ToLower(strings.TrimSpace(tag))] {
			return false
		}
	}
	return true
}

// IsRust reports whether a fence with the given info string and body holds
// Rust code. Tagged fences are decided by their tag alone.
func IsRust(info string, body []byte) bool {
	if strings.TrimSpace(info) != "" {
		return Language(info) == rust
	}
	return Detect(body) == rust
}

// Detect guesses the language of an untagged code block. It returns "" when
// no language is recognized with confidence.
func Detect(body []byte) string {
	if len(strings.TrimSpace(string(body))) == 0 {
		return ""
	}

	if lang, safe := enry.GetLanguageByShebang(body); safe {
		return lang
	}

	for _, pattern := range rustPatterns {
		if pattern.Match(body) {
			return rust
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(body, classifierCandidates); safe {
		return lang
	}
	return ""
}
