package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Vector writes the rendered SVG markup as-is.
type Vector struct{}

func (Vector) Name() string { return "svg" }

func (Vector) Export(_ context.Context, dir string, in Input) (Artifact, error) {
	if !strings.Contains(in.SVG, "<svg") {
		return Artifact{}, errors.New("no rendered svg markup")
	}
	path := filepath.Join(dir, in.stem()+".svg")
	if err := os.WriteFile(path, []byte(in.SVG), 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", path, err)
	}
	return Artifact{Path: path}, nil
}
