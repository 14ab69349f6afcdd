package state

import "strings"

// ZoomIn raises the zoom one step, never past MaxZoom.
func ZoomIn(s EditorState) EditorState {
	if s.Zoom < MaxZoom {
		s.Zoom++
	}
	return s
}

// ZoomOut lowers the zoom one step, never below MinZoom.
func ZoomOut(s EditorState) EditorState {
	if s.Zoom > MinZoom {
		s.Zoom--
	}
	return s
}

// ResetZoom returns to DefaultZoom.
func ResetZoom(s EditorState) EditorState {
	s.Zoom = DefaultZoom
	return s
}

// ClampZoom forces an out-of-range zoom (from a flag or config) into bounds.
func ClampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// ZoomPercent is the preview scale for the current zoom level.
func ZoomPercent(s EditorState) int {
	return ClampZoom(s.Zoom) * 50
}

// ToggleView cycles split -> editor -> preview -> split.
func ToggleView(s EditorState) EditorState {
	switch s.View {
	case ViewSplit:
		s.View = ViewEditor
	case ViewEditor:
		s.View = ViewPreview
	default:
		s.View = ViewSplit
	}
	return s
}

// ToggleFullscreen flips fullscreen.
func ToggleFullscreen(s EditorState) EditorState {
	s.Fullscreen = !s.Fullscreen
	return s
}

// Dirty reports unsaved changes: there is source text and it is not what
// last rendered successfully.
func Dirty(s EditorState) bool {
	t := strings.TrimSpace(s.Source)
	return t != "" && t != s.LastValid
}

// Counters returns the line and character counts shown on the status bar.
// An empty buffer has one line.
func Counters(s EditorState) (lines, chars int) {
	return strings.Count(s.Source, "\n") + 1, len([]rune(s.Source))
}
