package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Save       key.Binding
	Open       key.Binding
	Image      key.Binding
	Export     key.Binding
	Copy       key.Binding
	Render     key.Binding
	Templates  key.Binding
	Clear      key.Binding
	Diff       key.Binding
	View       key.Binding
	Fullscreen key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	ZoomReset  key.Binding
	Help       key.Binding
	Logs       key.Binding
	Indent     key.Binding
	Scroll     key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Open:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
		Image:      key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "from image")),
		Export:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export")),
		Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Render:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "render")),
		Templates:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "templates")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Diff:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "changes")),
		View:       key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "layout")),
		Fullscreen: key.NewBinding(key.WithKeys("f11"), key.WithHelp("f11", "fullscreen")),
		ZoomIn:     key.NewBinding(key.WithKeys("alt+=", "alt++"), key.WithHelp("alt+=", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("alt+-"), key.WithHelp("alt+-", "zoom out")),
		ZoomReset:  key.NewBinding(key.WithKeys("alt+0"), key.WithHelp("alt+0", "reset zoom")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Logs:       key.NewBinding(key.WithKeys("f12"), key.WithHelp("f12", "log")),
		Indent:     key.NewBinding(key.WithKeys("tab")),
		Scroll:     key.NewBinding(key.WithKeys("pgup", "pgdown")),
		Back:       key.NewBinding(key.WithKeys("esc")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
	}
}

// short is the footer help line.
func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Save, k.Open, k.Export, k.Templates, k.View, k.Help, k.Quit}
}
