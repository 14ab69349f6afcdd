package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mermaid-live/internal/source"
	"mermaid-live/internal/tui"
	"mermaid-live/internal/tui/state"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the live editor",
	Long: `Opens the full-screen editor. The diagram is re-rendered shortly after you
stop typing; the preview pane summarizes the result and the rendered SVG is
kept up to date in the preview file for an external viewer.

Press F1 inside the editor for the key reference.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().Bool("empty", false, "start with an empty buffer instead of the example diagram")
	editCmd.Flags().String("preview", "", "preview SVG path (default: preview_file from config)")
	editCmd.Flags().Int("zoom", state.DefaultZoom, "initial zoom level 1-4 (50% steps)")
	rootCmd.AddCommand(editCmd)
	// Running without a subcommand opens the editor.
	rootCmd.Args = cobra.MaximumNArgs(1)
	rootCmd.RunE = runEdit
	rootCmd.Flags().AddFlagSet(editCmd.Flags())
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()
	hook := tui.NewLogHook(256)
	log.AddHook(hook)

	initial := state.NewWithExample()
	if empty, _ := cmd.Flags().GetBool("empty"); empty {
		initial = state.New()
	}
	if len(args) == 1 {
		doc, err := source.Load(args[0])
		if err != nil {
			return err
		}
		initial.Source = doc.Text
		initial.FileName = doc.Name
	}
	zoom, _ := cmd.Flags().GetInt("zoom")
	initial.Zoom = state.ClampZoom(zoom)

	previewFile, _ := cmd.Flags().GetString("preview")
	if previewFile == "" {
		previewFile = cfg.PreviewFile
	}

	backend, err := newBackend(cfg, log)
	if err != nil {
		return err
	}
	log.WithField("backend", backend.Name()).Info("editor started")

	final, err := tui.Run(tui.Options{
		Reducer:     newReducer(cfg),
		Performer:   newExecutor(cfg, backend, os.Stdout, log),
		Initial:     initial,
		PreviewFile: previewFile,
		NoColor:     noColor,
		Logs:        hook.Lines(),
		Log:         log,
	})
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if state.Dirty(final) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Exited with changes that were not rendered or saved.")
	}
	return nil
}
