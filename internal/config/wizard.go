package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"mermaid-live/internal/proc"
	"mermaid-live/internal/render"
)

var themes = []string{"default", "dark", "forest", "neutral"}

// RunWizard asks for the renderer and export settings and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Let's configure the mermaid-live editor.")
	fmt.Println()

	cfg := Default()

	// 1. Backend. Offer the CLI first when mmdc is already installed.
	backends := []string{render.BackendHTTP, render.BackendCLI}
	if proc.Available(render.DefaultCommand) {
		backends = []string{render.BackendCLI, render.BackendHTTP}
		fmt.Printf("Found %s at %s\n\n", render.DefaultCommand, proc.FindBinary(render.DefaultCommand))
	}
	backendPrompt := promptui.Select{
		Label: "Select renderer backend",
		Items: backends,
	}
	_, backend, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	cfg.Renderer.Backend = backend

	// 2. Backend location.
	if backend == render.BackendCLI {
		cmdPrompt := promptui.Prompt{
			Label:   "mermaid-cli command",
			Default: cfg.Renderer.Command,
		}
		if cfg.Renderer.Command, err = cmdPrompt.Run(); err != nil {
			return nil, fmt.Errorf("renderer command: %w", err)
		}
	} else {
		urlPrompt := promptui.Prompt{
			Label:   "Renderer service URL",
			Default: cfg.Renderer.URL,
			Validate: func(s string) error {
				if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
					return fmt.Errorf("must start with http:// or https://")
				}
				return nil
			},
		}
		if cfg.Renderer.URL, err = urlPrompt.Run(); err != nil {
			return nil, fmt.Errorf("renderer url: %w", err)
		}
	}

	// 3. Theme.
	themePrompt := promptui.Select{
		Label: "Select diagram theme",
		Items: themes,
	}
	if _, cfg.Renderer.Theme, err = themePrompt.Run(); err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}

	// 4. Export directory and scale.
	dirPrompt := promptui.Prompt{
		Label:   "Export directory",
		Default: cfg.Export.Dir,
	}
	if cfg.Export.Dir, err = dirPrompt.Run(); err != nil {
		return nil, fmt.Errorf("export dir: %w", err)
	}
	scalePrompt := promptui.Prompt{
		Label:    "PNG export scale",
		Default:  strconv.FormatFloat(cfg.Export.Scale, 'f', -1, 64),
		Validate: validateScale,
	}
	scaleStr, err := scalePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("export scale: %w", err)
	}
	cfg.Export.Scale, _ = strconv.ParseFloat(scaleStr, 64)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateScale(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v <= 0 || v > 10 {
		return fmt.Errorf("scale must be in (0, 10]")
	}
	return nil
}
