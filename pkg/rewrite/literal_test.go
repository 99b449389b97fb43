package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnquoteRaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lit     string
		prefix  string
		hashes  int
		content string
	}{
		{`r""`, "r", 0, ""},
		{`r"select 1"`, "r", 0, "select 1"},
		{`r#"select "x""#`, "r", 1, `select "x"`},
		{`r##"a "# b"##`, "r", 2, `a "# b`},
		{`r###"x"###`, "r", 3, "x"},
		{`br#"bytes"#`, "br", 1, "bytes"},
		{"r#\"\n  select\n\"#", "r", 1, "\n  select\n"},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			t.Parallel()

			prefix, hashes, content, err := unquoteRaw(tt.lit)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.hashes, hashes)
			assert.Equal(t, tt.content, content)
		})
	}
}

func TestUnquoteRaw_Malformed(t *testing.T) {
	t.Parallel()

	for _, lit := range []string{`"plain"`, `r#"open`, `r#"#`, `r##"x"#`, `rx"a"`, ``} {
		_, _, _, err := unquoteRaw(lit)
		require.ErrorIs(t, err, ErrMalformedLiteral, lit)
	}
}

func TestUnquoteQuoted(t *testing.T) {
	t.Parallel()

	prefix, content, err := unquoteQuoted(`"select \"id\" from t"`)
	require.NoError(t, err)
	assert.Empty(t, prefix)
	assert.Equal(t, `select \"id\" from t`, content)

	prefix, content, err = unquoteQuoted(`b"x"`)
	require.NoError(t, err)
	assert.Equal(t, "b", prefix)
	assert.Equal(t, "x", content)

	_, _, err = unquoteQuoted(`"`)
	require.ErrorIs(t, err, ErrMalformedLiteral)
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"\n", 1},
		{"a\nb", 2},
		{"a\r\nb\r\n", 2},
		{"\n  select\n  ", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, countLines(tt.in), "%q", tt.in)
		assert.Len(t, splitLines(tt.in), tt.want, "%q", tt.in)
	}

	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\r\n"))
}
