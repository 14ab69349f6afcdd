package state

// TagKind enumerates the status chips shown next to the editor.
type TagKind int

const (
	// Stable ordering for display.
	DIRTY TagKind = iota
	LINES
	CHARS
	ZOOM
	FILE
)

// Tag represents a single status chip. Value is used for numeric counters;
// non-numeric tags use Value = 0 and Text when they carry a label.
type Tag struct {
	Kind  TagKind
	Value int
	Text  string
}

// Tags derives the chips for s in display order.
func Tags(s EditorState) []Tag {
	var out []Tag
	if Dirty(s) {
		out = append(out, Tag{Kind: DIRTY})
	}
	lines, chars := Counters(s)
	out = append(out,
		Tag{Kind: LINES, Value: lines},
		Tag{Kind: CHARS, Value: chars},
		Tag{Kind: ZOOM, Value: ZoomPercent(s)},
	)
	if s.FileName != "" {
		out = append(out, Tag{Kind: FILE, Text: s.FileName})
	}
	return out
}
