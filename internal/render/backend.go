package render

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"mermaid-live/internal/proc"
)

const (
	BackendCLI  = "cli"
	BackendHTTP = "http"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Command    string
	URL        string
	Theme      string
	Background string
	ConfigFile string
	Timeout    time.Duration
}

// New builds the backend named by opts.Backend.
func New(opts Options, log logrus.FieldLogger) (Backend, error) {
	switch opts.Backend {
	case BackendCLI, "":
		return NewCLI(opts, proc.NewRunner(log)), nil
	case BackendHTTP:
		return NewHTTP(opts, nil), nil
	default:
		return nil, fmt.Errorf("unknown renderer backend %q: must be cli or http", opts.Backend)
	}
}
