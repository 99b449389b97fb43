package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/sqlxfmt/pkg/rewrite"
	"github.com/yaklabco/sqlxfmt/pkg/rsast"
)

func TestReconstruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		occ       rewrite.Occurrence
		formatted string
		indent    int
		want      string
		shape     rewrite.Shape
	}{
		{
			name:      "single line stays inline",
			occ:       rewrite.Occurrence{Kind: rewrite.LiteralRaw, Prefix: "r", Hashes: 1, LineCount: 1},
			formatted: "  select 1  \n",
			indent:    4,
			want:      `r#"select 1"#`,
			shape:     rewrite.ShapeInline,
		},
		{
			name:      "empty content stays inline",
			occ:       rewrite.Occurrence{Kind: rewrite.LiteralRaw, Prefix: "r", LineCount: 0},
			formatted: "",
			indent:    4,
			want:      `r""`,
			shape:     rewrite.ShapeInline,
		},
		{
			name: "single expands to many",
			occ: rewrite.Occurrence{
				Kind: rewrite.LiteralRaw, Prefix: "r", Hashes: 1, LineCount: 1,
				Start: rsast.Point{Column: 2},
			},
			formatted: "select *\nfrom t\n\n\n",
			indent:    4,
			want:      "r#\"\n      select *\n      from t\n  \"#",
			shape:     rewrite.ShapeSingleToMany,
		},
		{
			name: "many to many keeps blank lines empty",
			occ: rewrite.Occurrence{
				Kind: rewrite.LiteralRaw, Prefix: "r", Hashes: 2, LineCount: 4,
				Start: rsast.Point{Column: 1},
			},
			formatted: "with x as (select 1)\n\nselect *   \nfrom x\n",
			indent:    2,
			want:      "r##\"\n   with x as (select 1)\n\n   select *\n   from x\n \"##",
			shape:     rewrite.ShapeManyToMany,
		},
		{
			name: "many collapses to one",
			occ: rewrite.Occurrence{
				Kind: rewrite.LiteralRaw, Prefix: "r", LineCount: 3,
				Start: rsast.Point{Column: 8},
			},
			formatted: "select 1\n",
			indent:    4,
			want:      `r"select 1"`,
			shape:     rewrite.ShapeInline,
		},
		{
			name:      "quoted flattens",
			occ:       rewrite.Occurrence{Kind: rewrite.LiteralQuoted, LineCount: 1},
			formatted: "select *\n  from t\n\nwhere a = 1\n",
			indent:    4,
			want:      `"select * from t  where a = 1"`,
			shape:     rewrite.ShapeFlattened,
		},
		{
			name:      "negative indentation is zero",
			occ:       rewrite.Occurrence{Kind: rewrite.LiteralRaw, Prefix: "r", LineCount: 1},
			formatted: "a\nb\n",
			indent:    -3,
			want:      "r\"\na\nb\n\"",
			shape:     rewrite.ShapeSingleToMany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, shape := rewrite.Reconstruct(&tt.occ, tt.formatted, tt.indent)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.shape, shape)
		})
	}
}
