package langdetect_test

import (
	"testing"

	"github.com/yaklabco/sqlxfmt/pkg/langdetect"
)

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info string
		want string
	}{
		{"rust", "Rust"},
		{"Rust", "Rust"},
		{"rs", "Rust"},
		{"rust,no_run", "Rust"},
		{"rust title=\"db.rs\"", "Rust"},
		{"{.rust}", "Rust"},
		{"ignore", "Rust"},
		{"should_panic,edition2021", "Rust"},
		{"sql", "SQL"},
		{"go", "Go"},
		{"", ""},
		{"   ", ""},
		{"not-a-language-at-all", ""},
	}

	for _, tt := range tests {
		t.Run(tt.info, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.Language(tt.info); got != tt.want {
				t.Errorf("Language(%q) = %q, want %q", tt.info, got, tt.want)
			}
		})
	}
}

func TestIsRust(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info string
		body string
		want bool
	}{
		{
			name: "tagged rust",
			info: "rust",
			body: "SELECT 1",
			want: true,
		},
		{
			name: "tagged sql with rust-looking body",
			info: "sql",
			body: "fn main() {}",
			want: false,
		},
		{
			name: "untagged function",
			body: "fn main() {\n    println!(\"hi\");\n}\n",
			want: true,
		},
		{
			name: "untagged sqlx call",
			body: "let rows = sqlx::query!(\"select 1\").fetch_all(&pool).await?;\n",
			want: true,
		},
		{
			name: "untagged use statement",
			body: "use sqlx::postgres::PgPool;\n",
			want: true,
		},
		{
			name: "untagged shell",
			body: "#!/bin/sh\necho hi\n",
			want: false,
		},
		{
			name: "untagged empty",
			body: "\n\n",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.IsRust(tt.info, []byte(tt.body)); got != tt.want {
				t.Errorf("IsRust(%q, %q) = %v, want %v", tt.info, tt.body, got, tt.want)
			}
		})
	}
}
