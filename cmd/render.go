package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mermaid-live/internal/export"
	"mermaid-live/internal/progress"
	"mermaid-live/internal/render"
	"mermaid-live/internal/source"
)

var renderCmd = &cobra.Command{
	Use:   "render <glob>...",
	Short: "Render diagram files to SVG or PNG",
	Long: `Renders every file matching the globs. Patterns support ** (for example
docs/**/*.md). Markdown files contribute their first mermaid code block.
PNG output falls back to SVG for diagrams the backend cannot rasterize.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "", "output directory (default: export.dir from config)")
	renderCmd.Flags().StringP("format", "f", "svg", "output format: svg or png")
	renderCmd.Flags().StringSlice("exclude", nil, "glob patterns to skip")
	renderCmd.Flags().String("caption", "", "footer text drawn under PNG exports")
	renderCmd.Flags().Int("concurrency", 4, "max parallel renders")
	renderCmd.Flags().BoolP("quiet", "q", false, "plain progress lines instead of a progress bar")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Export.Dir
	}
	format, _ := cmd.Flags().GetString("format")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	quiet, _ := cmd.Flags().GetBool("quiet")
	caption, _ := cmd.Flags().GetString("caption")

	files, err := source.Discover(args, exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No diagram files matched.")
		return nil
	}

	backend, err := newBackend(cfg, log)
	if err != nil {
		return err
	}
	var chain *export.Chain
	switch format {
	case "svg":
		chain = export.NewChain(out, log, export.Vector{})
	case "png":
		chain = newExportChain(cfg, backend, out, caption, log)
	default:
		return fmt.Errorf("unknown format %q: must be svg or png", format)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	b := &batch{
		renderer: backend,
		chain:    chain,
		reporter: progress.NewReporter(cmd.ErrOrStderr(), quiet),
		log:      log,
	}
	results := b.run(ctx, files, concurrency)
	return summarize(cmd.OutOrStdout(), results)
}

// batchResult is the outcome for one input file.
type batchResult struct {
	Path     string
	Artifact export.Artifact
	Err      error
}

// batch renders many files with bounded parallelism. A failing file does
// not stop the others.
type batch struct {
	renderer render.Renderer
	chain    *export.Chain
	reporter progress.Reporter
	log      logrus.FieldLogger

	mu   sync.Mutex
	done int
}

func (b *batch) run(ctx context.Context, files []string, limit int) []batchResult {
	if limit < 1 {
		limit = 1
	}
	results := make([]batchResult, len(files))
	b.reporter.Start(len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			art, err := b.one(gctx, path)
			results[i] = batchResult{Path: path, Artifact: art, Err: err}
			b.step(path)
			return nil
		})
	}
	_ = g.Wait()
	b.reporter.Finish()
	return results
}

func (b *batch) one(ctx context.Context, path string) (export.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return export.Artifact{}, err
	}
	doc, err := source.Load(path)
	if err != nil {
		return export.Artifact{}, err
	}
	id := render.NewID()
	log := b.log.WithFields(logrus.Fields{"file": path, "id": id})
	res, err := b.renderer.Render(ctx, id, doc.Text)
	if err != nil {
		log.WithError(err).Warn("render failed")
		return export.Artifact{}, fmt.Errorf("render: %s", render.ErrorMessage(err))
	}
	art, err := b.chain.Export(ctx, export.Input{ID: id, Name: doc.Stem(), Text: doc.Text, SVG: res.SVG})
	if err != nil {
		return export.Artifact{}, err
	}
	log.WithField("path", art.Path).Debug("written")
	return art, nil
}

func (b *batch) step(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done++
	b.reporter.Update(b.done, path)
}

func summarize(w io.Writer, results []batchResult) error {
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "Error: %s: %v\n", r.Path, r.Err)
			continue
		}
		note := ""
		if r.Artifact.Fallback {
			note = " (fallback)"
		}
		fmt.Fprintf(w, "%s -> %s%s\n", r.Path, r.Artifact.Path, note)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d diagrams failed", failed, len(results))
	}
	return nil
}
