package proc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ExitError is returned when a child process ran but failed. Stderr holds
// whatever the process printed before exiting.
type ExitError struct {
	Name   string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, firstLine(s))
	}
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner runs short-lived helper processes in their own process group so a
// cancelled context takes down the whole tree.
type Runner struct {
	log logrus.FieldLogger
}

func NewRunner(log logrus.FieldLogger) *Runner {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Runner{log: log}
}

// Run executes name with args and returns its stdout.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	bin := FindBinary(name)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.SysProcAttr = newSysProcAttrForGroup()
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return killProcessGroup(cmd.Process.Pid)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.pipeLogs(name, &stderr)
	r.log.WithFields(logrus.Fields{"cmd": name, "elapsed": time.Since(start).Round(time.Millisecond)}).Debug("process finished")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", name, ctxErr)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%s not found in PATH: %w", name, err)
		}
		return nil, &ExitError{Name: name, Stderr: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}

func (r *Runner) pipeLogs(name string, rd io.Reader) {
	sc := bufio.NewScanner(rd)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.log.Debugf("[%s] %s", name, line)
	}
}

// FindBinary resolves name on PATH, returning name unchanged when it cannot
// be found so exec reports a clear error.
func FindBinary(name string) string {
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	if runtime.GOOS == "windows" && !strings.HasSuffix(name, ".exe") {
		if p, err := exec.LookPath(name + ".exe"); err == nil {
			return p
		}
	}
	return name
}

// Available reports whether name resolves on PATH.
func Available(name string) bool {
	_, err := exec.LookPath(FindBinary(name))
	return err == nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
