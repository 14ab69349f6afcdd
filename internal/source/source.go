package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// FileReadError reports a source file that could not be used.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *FileReadError) Unwrap() error { return e.Err }

var (
	ErrNotText    = errors.New("not valid UTF-8 text")
	ErrNoDiagrams = errors.New("no mermaid code block found")
)

// Document is a loaded diagram source.
type Document struct {
	Name string // base name of the file
	Text string
}

// Stem is Name without its extension.
func (d Document) Stem() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}

var markdownExt = map[string]bool{".md": true, ".markdown": true}

// Load reads path as UTF-8 diagram text. Markdown files yield their first
// ```mermaid block.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, &FileReadError{Path: path, Err: err}
	}
	return Parse(filepath.Base(path), data)
}

// Parse is Load without the file system.
func Parse(name string, data []byte) (Document, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return Document{}, &FileReadError{Path: name, Err: ErrNotText}
	}
	if markdownExt[strings.ToLower(filepath.Ext(name))] {
		blocks := ExtractMermaid(data)
		if len(blocks) == 0 {
			return Document{}, &FileReadError{Path: name, Err: ErrNoDiagrams}
		}
		return Document{Name: name, Text: blocks[0]}, nil
	}
	return Document{Name: name, Text: string(data)}, nil
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ExtractMermaid returns the bodies of all fenced code blocks tagged
// mermaid, in document order.
func ExtractMermaid(src []byte) []string {
	doc := markdown.Parser().Parse(text.NewReader(src))
	var out []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || !strings.EqualFold(string(fcb.Language(src)), "mermaid") {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		out = append(out, strings.TrimRight(b.String(), "\n"))
		return ast.WalkSkipChildren, nil
	})
	return out
}
