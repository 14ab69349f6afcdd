package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultName is the file stem used when the input does not carry one.
const DefaultName = "mermaid-diagram"

// Input is one diagram to export.
type Input struct {
	ID   string // render identifier, passed through to the rasterizer
	Name string // output file stem; DefaultName when empty
	Text string // diagram source
	SVG  string // rendered markup, if any
}

func (in Input) stem() string {
	if in.Name == "" {
		return DefaultName
	}
	return in.Name
}

// Artifact describes a written export.
type Artifact struct {
	Path     string
	Strategy string
	Fallback bool // a lower-fidelity strategy than the first was used
	Width    int
	Height   int
}

// Strategy is one way of exporting a diagram.
type Strategy interface {
	Name() string
	Export(ctx context.Context, dir string, in Input) (Artifact, error)
}

// Attempt records one failed strategy.
type Attempt struct {
	Strategy string
	Err      error
}

// ExportError is returned when every strategy failed.
type ExportError struct {
	Attempts []Attempt
}

func (e *ExportError) Error() string {
	if len(e.Attempts) == 0 {
		return "export: no strategies configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Strategy, a.Err))
	}
	return "export failed (" + strings.Join(parts, "; ") + ")"
}

func (e *ExportError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// Chain tries its strategies in order until one succeeds.
type Chain struct {
	dir        string
	strategies []Strategy
	log        logrus.FieldLogger
}

func NewChain(dir string, log logrus.FieldLogger, strategies ...Strategy) *Chain {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Chain{dir: dir, strategies: strategies, log: log}
}

// Strategies returns the strategy names in the order they are tried.
func (c *Chain) Strategies() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Export runs the chain. The returned artifact has Fallback set when any
// strategy before the successful one failed.
func (c *Chain) Export(ctx context.Context, in Input) (Artifact, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return Artifact{}, &ExportError{Attempts: []Attempt{{Strategy: "mkdir", Err: err}}}
	}
	var failed []Attempt
	for i, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			failed = append(failed, Attempt{Strategy: s.Name(), Err: err})
			break
		}
		art, err := s.Export(ctx, c.dir, in)
		if err == nil {
			art.Strategy = s.Name()
			art.Fallback = i > 0
			c.log.WithFields(logrus.Fields{"strategy": s.Name(), "path": art.Path}).Info("diagram exported")
			return art, nil
		}
		c.log.WithError(err).WithField("strategy", s.Name()).Warn("export strategy failed, trying next")
		failed = append(failed, Attempt{Strategy: s.Name(), Err: err})
	}
	return Artifact{}, &ExportError{Attempts: failed}
}

// ErrNothingToSave is returned by SaveSource for blank text.
var ErrNothingToSave = errors.New("no code to save")

// SaveSource writes text to <dir>/<name>.mmd and returns the path.
func SaveSource(dir, name, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNothingToSave
	}
	if name == "" {
		name = DefaultName
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+".mmd")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
