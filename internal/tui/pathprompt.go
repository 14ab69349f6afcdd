package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// promptPurpose says what a submitted path is for.
type promptPurpose int

const (
	promptOpenFile promptPurpose = iota
	promptOpenImage
)

func (p promptPurpose) title() string {
	if p == promptOpenImage {
		return "Generate from image"
	}
	return "Open diagram file"
}

// pathPrompt is a one-line path input with directory suggestions.
type pathPrompt struct {
	purpose promptPurpose
	buf     string
	suggest []string
	msg     string
}

func newPathPrompt(p promptPurpose) pathPrompt {
	return pathPrompt{purpose: p}
}

// update handles one key. It returns the expanded path once the user
// submits an existing file, and cancelled on esc.
func (m pathPrompt) update(msg tea.KeyMsg) (next pathPrompt, path string, cancelled bool) {
	switch msg.String() {
	case "enter":
		if strings.TrimSpace(m.buf) == "" {
			return m, "", false
		}
		p := expandPath(m.buf)
		fi, err := os.Stat(p)
		if err != nil {
			m.msg = "! not found: " + p
			return m, "", false
		}
		if fi.IsDir() {
			m.buf = withSep(m.buf)
			m.computeSuggestions()
			return m, "", false
		}
		return m, p, false
	case "tab":
		if len(m.suggest) > 0 {
			m.buf = m.suggest[0]
			m.computeSuggestions()
		}
		return m, "", false
	case "esc":
		return m, "", true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if r := []rune(m.buf); len(r) > 0 {
			m.buf = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.buf += string(msg.Runes)
	default:
		return m, "", false
	}
	m.msg = ""
	m.computeSuggestions()
	return m, "", false
}

func (m *pathPrompt) computeSuggestions() {
	in := m.buf
	if strings.TrimSpace(in) == "" {
		m.suggest = nil
		return
	}
	expanded := expandPath(in)
	dir, base := expanded, ""
	if fi, err := os.Stat(expanded); err != nil || !fi.IsDir() || !strings.HasSuffix(in, string(filepath.Separator)) {
		dir = filepath.Dir(expanded)
		base = filepath.Base(expanded)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.suggest = nil
		return
	}
	home, _ := os.UserHomeDir()
	var out []string
	for _, e := range entries {
		name := e.Name()
		if base != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(base)) {
			continue
		}
		cand := filepath.Join(dir, name)
		if e.IsDir() {
			cand += string(filepath.Separator)
		}
		if home != "" && strings.HasPrefix(cand, home) {
			cand = "~" + strings.TrimPrefix(cand, home)
		}
		out = append(out, cand)
		if len(out) >= 8 {
			break
		}
	}
	sort.Strings(out)
	m.suggest = out
}

func (m pathPrompt) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.purpose.title()) + "\n\n")
	if m.msg != "" {
		b.WriteString(errStyle.Render(m.msg) + "\n")
	}
	b.WriteString("Path: " + m.buf + "\n")
	for _, s := range m.suggest {
		b.WriteString(faintStyle.Render("  • ") + s + "\n")
	}
	b.WriteString("\nenter: open   tab: autocomplete   esc: cancel\n")
	return b.String()
}

func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "~/") {
		if h, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(h, p[2:])
		}
	}
	p = os.ExpandEnv(p)
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

func withSep(p string) string {
	if strings.HasSuffix(p, string(filepath.Separator)) {
		return p
	}
	return p + string(filepath.Separator)
}
