package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// LogHook forwards log entries to the editor's log pane. Entries are
// dropped when the pane falls behind.
type LogHook struct {
	ch chan string
}

func NewLogHook(buffer int) *LogHook {
	return &LogHook{ch: make(chan string, buffer)}
}

func (h *LogHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *LogHook) Fire(e *logrus.Entry) error {
	select {
	case h.ch <- formatEntry(e):
	default:
	}
	return nil
}

// Lines is the stream consumed by the log pane.
func (h *LogHook) Lines() <-chan string { return h.ch }

func formatEntry(e *logrus.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", e.Time.Format("15:04:05"), strings.ToUpper(e.Level.String()), e.Message)
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	return b.String()
}

type logMsg string

func waitLog(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return logMsg(s)
	}
}

const logPaneLines = 12

// logPane keeps the tail of the log and supports scrolling, freezing,
// search and saving.
type logPane struct {
	logs      []string
	offset    int
	frozen    bool
	frozenBuf []string
	status    string

	searching  bool
	searchBuf  string
	searchIdxs []int
	searchPos  int
}

func (m *logPane) add(line string) {
	if m.frozen {
		m.frozenBuf = append(m.frozenBuf, line)
		return
	}
	m.logs = append(m.logs, line)
}

// update handles keys while the pane has focus. It reports false for keys
// it does not own.
func (m *logPane) update(msg tea.KeyMsg) bool {
	k := msg.String()
	if m.searching {
		switch k {
		case "enter":
			m.searching = false
			m.computeSearch()
			m.jumpToResult(0)
		case "esc":
			m.searching = false
			m.searchBuf = ""
			m.searchIdxs = nil
			m.searchPos = 0
		default:
			if msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH {
				if r := []rune(m.searchBuf); len(r) > 0 {
					m.searchBuf = string(r[:len(r)-1])
				}
			} else if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
				m.searchBuf += string(msg.Runes)
			}
		}
		return true
	}
	switch k {
	case "up", "k":
		if m.offset < len(m.logs) {
			m.offset++
		}
	case "down", "j":
		if m.offset > 0 {
			m.offset--
		}
	case "home":
		m.offset = len(m.logs)
	case "end":
		m.offset = 0
	case "/":
		m.searching = true
		m.searchBuf = ""
	case "n":
		if len(m.searchIdxs) > 0 {
			m.jumpToResult(m.searchPos + 1)
		}
	case "N":
		if len(m.searchIdxs) > 0 {
			m.jumpToResult(m.searchPos - 1)
		}
	case "f":
		m.frozen = !m.frozen
		if !m.frozen && len(m.frozenBuf) > 0 {
			m.logs = append(m.logs, m.frozenBuf...)
			m.frozenBuf = nil
		}
		if m.frozen {
			m.status = "Logs frozen"
		} else {
			m.status = "Logs resumed"
		}
	case "S":
		if path, err := m.save(filepath.Join(".mermaid-live", "logs")); err == nil {
			m.status = "Saved logs to " + path
		} else {
			m.status = "Save failed: " + err.Error()
		}
	default:
		return false
	}
	return true
}

func (m logPane) view(width int) string {
	var b strings.Builder
	hint := "(j/k) scroll (/) search (n/N) next (f) freeze (S) save (f12) close"
	if m.searching {
		hint += "  /" + m.searchBuf
	} else if len(m.searchIdxs) > 0 {
		hint += fmt.Sprintf("  [%d/%d]", m.searchPos+1, len(m.searchIdxs))
	}
	b.WriteString(faintStyle.Render(hint) + "\n")
	if strings.TrimSpace(m.status) != "" {
		b.WriteString(faintStyle.Render(m.status) + "\n")
	}
	start, end := m.window()
	avail := width - 4
	if avail < 20 {
		avail = 20
	}
	lines := make([]string, 0, end-start)
	for i, ln := range m.logs[start:end] {
		r := []rune(ln)
		if len(r) > avail {
			ln = string(r[:avail-1]) + "…"
		}
		lines = append(lines, m.highlight(ln, start+i))
	}
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	b.WriteString(border.Render(strings.Join(lines, "\n")))
	return b.String()
}

// window returns the visible slice bounds, counting offset up from the tail.
func (m logPane) window() (int, int) {
	end := len(m.logs) - m.offset
	if end < 0 {
		end = 0
	}
	start := end - logPaneLines
	if start < 0 {
		start = 0
	}
	return start, end
}

func (m *logPane) computeSearch() {
	m.searchIdxs = nil
	m.searchPos = 0
	q := strings.ToLower(strings.TrimSpace(m.searchBuf))
	if q == "" {
		return
	}
	for i, ln := range m.logs {
		if strings.Contains(strings.ToLower(ln), q) {
			m.searchIdxs = append(m.searchIdxs, i)
		}
	}
}

func (m *logPane) jumpToResult(pos int) {
	if len(m.searchIdxs) == 0 {
		return
	}
	if pos < 0 {
		pos = len(m.searchIdxs) - 1
	}
	if pos >= len(m.searchIdxs) {
		pos = 0
	}
	m.searchPos = pos
	m.offset = len(m.logs) - (m.searchIdxs[pos] + 1)
	if m.offset < 0 {
		m.offset = 0
	}
}

var highlightStyle = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "228", Dark: "94"}).Foreground(lipgloss.Color("0"))

func (m logPane) highlight(s string, idx int) string {
	q := strings.ToLower(strings.TrimSpace(m.searchBuf))
	if q == "" || !containsIndex(m.searchIdxs, idx) {
		return s
	}
	p := strings.Index(strings.ToLower(s), q)
	if p < 0 {
		return s
	}
	return s[:p] + highlightStyle.Render(s[p:p+len(q)]) + s[p+len(q):]
}

func containsIndex(a []int, x int) bool {
	for _, v := range a {
		if v == x {
			return true
		}
	}
	return false
}

func (m logPane) save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, time.Now().Format("20060102_150405")+".log")
	return path, os.WriteFile(path, []byte(strings.Join(m.logs, "\n")+"\n"), 0o644)
}
