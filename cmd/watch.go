package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mermaid-live/internal/session"
	"mermaid-live/internal/tui/state"
	"mermaid-live/internal/tui/widgets/preview"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render a diagram file whenever it changes",
	Long: `Watches a diagram file and renders it after every save, writing the SVG to
the output file so any image viewer can show it live. Syntax errors are
reported on the terminal and the last good image is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("out", "o", "", "preview SVG path (default: preview_file from config, else <export.dir>/<name>.svg)")
	watchCmd.Flags().Int("zoom", state.DefaultZoom, "preview zoom level 1-4 (50% steps)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("watch %s: %w", args[0], err)
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.PreviewFile
	}
	if out == "" {
		base := filepath.Base(path)
		out = filepath.Join(cfg.Export.Dir, base[:len(base)-len(filepath.Ext(base))]+".svg")
	}
	zoom, _ := cmd.Flags().GetInt("zoom")

	backend, err := newBackend(cfg, log)
	if err != nil {
		return err
	}
	initial := state.New()
	initial.Zoom = state.ClampZoom(zoom)
	sess := session.New(newReducer(cfg), newExecutor(cfg, backend, cmd.OutOrStdout(), log), initial)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (preview: %s). Press Ctrl+C to stop.\n", args[0], out)
	w := &fileWatcher{path: path, out: out, w: cmd.OutOrStdout(), log: log}
	return w.run(ctx, sess)
}

// fileWatcher feeds a file into a session on every change and mirrors the
// session's output to the terminal and the preview file.
type fileWatcher struct {
	path string
	out  string
	w    io.Writer
	log  logrus.FieldLogger
}

func (fw *fileWatcher) run(ctx context.Context, sess *session.Session) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// Editors often save by renaming over the file, so watch the directory.
	dir := filepath.Dir(fw.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	sess.OnChange = fw.onChange
	done := make(chan struct{})
	go func() {
		sess.Run(ctx)
		close(done)
	}()
	sess.Post(state.OpenFileRequested{Path: fw.path})

	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != fw.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			fw.log.WithField("op", ev.Op.String()).Debug("file changed")
			sess.Post(state.OpenFileRequested{Path: fw.path})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fw.log.WithError(err).Warn("watcher error")
		}
	}
}

func (fw *fileWatcher) onChange(prev, next state.EditorState) {
	if next.Output == prev.Output {
		if next.Status != prev.Status && next.Status.Kind == state.StatusError {
			fmt.Fprintf(fw.w, "Error: %s\n", next.Status.Text)
		}
		return
	}
	switch next.Output.Kind {
	case state.Rendered:
		if err := preview.WriteFile(fw.out, next.Output.SVG, state.ZoomPercent(next)); err != nil {
			fmt.Fprintf(fw.w, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(fw.w, "Rendered %s -> %s\n", next.FileName, fw.out)
	case state.Failed:
		fmt.Fprintf(fw.w, "Error: %s\n", next.Output.Message)
	}
}
