package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mermaid-live/internal/proc"
)

// DefaultCommand is the mermaid-cli executable.
const DefaultCommand = "mmdc"

// CLI renders through the mermaid-cli executable, one process per call.
type CLI struct {
	command    string
	theme      string
	background string
	configFile string
	timeout    time.Duration
	runner     *proc.Runner
}

func NewCLI(opts Options, runner *proc.Runner) *CLI {
	cmd := opts.Command
	if cmd == "" {
		cmd = DefaultCommand
	}
	if runner == nil {
		runner = proc.NewRunner(nil)
	}
	return &CLI{
		command:    cmd,
		theme:      opts.Theme,
		background: opts.Background,
		configFile: opts.ConfigFile,
		timeout:    opts.Timeout,
		runner:     runner,
	}
}

func (c *CLI) Name() string { return BackendCLI + ":" + c.command }

func (c *CLI) Render(ctx context.Context, id, text string) (Result, error) {
	out, err := c.run(ctx, id, text, ".svg", 0)
	if err != nil {
		return Result{}, err
	}
	return Result{SVG: string(out)}, nil
}

func (c *CLI) Rasterize(ctx context.Context, id, text string, scale float64) (image.Image, error) {
	out, err := c.run(ctx, id, text, ".png", scale)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode %s output: %w", c.command, err)
	}
	return img, nil
}

func (c *CLI) run(ctx context.Context, id, text, ext string, scale float64) ([]byte, error) {
	dir, err := os.MkdirTemp("", "mermaid-live-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, id+".mmd")
	out := filepath.Join(dir, id+ext)
	if err := os.WriteFile(in, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("write scratch input: %w", err)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if _, err := c.runner.Run(ctx, c.command, c.args(in, out, scale)...); err != nil {
		var ee *proc.ExitError
		if errors.As(err, &ee) {
			return nil, &RenderError{ID: id, Message: stderrMessage(ee.Stderr), Err: err}
		}
		return nil, &RenderError{ID: id, Err: err}
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, &RenderError{ID: id, Message: c.command + " produced no output", Err: err}
	}
	return data, nil
}

func (c *CLI) args(in, out string, scale float64) []string {
	args := []string{"-i", in, "-o", out, "-q"}
	if c.theme != "" {
		args = append(args, "-t", c.theme)
	}
	if c.background != "" {
		args = append(args, "-b", c.background)
	}
	if c.configFile != "" {
		args = append(args, "-c", c.configFile)
	}
	if scale > 0 {
		args = append(args, "-s", strconv.FormatFloat(scale, 'f', -1, 64))
	}
	return args
}

// stderrMessage keeps the parser's explanation from mmdc output and drops
// the node stack trace that follows it.
func stderrMessage(stderr string) string {
	var keep []string
	for _, line := range strings.Split(stderr, "\n") {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "at ") {
			continue
		}
		keep = append(keep, strings.TrimPrefix(t, "Error: "))
		if len(keep) == 4 {
			break
		}
	}
	return strings.Join(keep, "\n")
}
