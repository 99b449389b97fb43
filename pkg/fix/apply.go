package fix

import "slices"

// ApplyEdits splices validated, non-overlapping edits into a copy of content.
// Edits are applied from the highest start offset down, so every edit's
// offsets are still valid against the untouched prefix of the buffer.
// The input slice and content are left unmodified.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	ordered := slices.Clone(edits)
	SortEdits(ordered)

	delta := 0
	for _, e := range ordered {
		delta += e.Delta()
	}

	out := make([]byte, len(content), len(content)+max(delta, 0))
	copy(out, content)

	for i := len(ordered) - 1; i >= 0; i-- {
		e := ordered[i]
		out = slices.Replace(out, e.StartOffset, e.EndOffset, []byte(e.NewText)...)
	}

	return out
}

// Apply prepares edits against content and applies them.
// It returns the first validation or conflict error.
func Apply(content []byte, edits []TextEdit) ([]byte, error) {
	prepared, err := PrepareEdits(edits, len(content))
	if err != nil {
		return nil, err
	}
	return ApplyEdits(content, prepared), nil
}
