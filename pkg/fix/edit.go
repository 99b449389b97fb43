// Package fix provides text edits against a pristine buffer and the logic to
// validate and splice them in.
package fix

// TextEdit replaces the bytes [StartOffset, EndOffset) of the original buffer.
// Offsets always refer to the buffer the edits were computed against, never to
// a partially edited one.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Len returns the number of original bytes the edit replaces.
func (e TextEdit) Len() int {
	return e.EndOffset - e.StartOffset
}

// Delta returns how much the edit grows (positive) or shrinks the buffer.
func (e TextEdit) Delta() int {
	return len(e.NewText) - e.Len()
}

// EditBuilder accumulates edits for one document.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Shift adds offset to every accumulated edit. It is used when edits were
// computed against a slice of a larger buffer.
func (b *EditBuilder) Shift(offset int) {
	for i := range b.Edits {
		b.Edits[i].StartOffset += offset
		b.Edits[i].EndOffset += offset
	}
}

// Len returns the number of accumulated edits.
func (b *EditBuilder) Len() int {
	return len(b.Edits)
}
