package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mermaid-live/internal/export"
	"mermaid-live/internal/heuristic"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <image>",
	Short: "Suggest diagram text from an image",
	Long: `Samples the image, measures brightness, edge density and aspect ratio,
and prints a starter diagram of the matching family. The result is a
template to edit, not a transcription of the image.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().Bool("stats", false, "print the measured statistics instead of diagram text")
	suggestCmd.Flags().Bool("save", false, "also save the text as <image name>.mmd in the export directory")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	path := args[0]
	img, err := heuristic.DecodeFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	stats := heuristic.Sample(img)
	out := cmd.OutOrStdout()

	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		fmt.Fprintf(out, "sample:     %dx%d\n", stats.Width, stats.Height)
		fmt.Fprintf(out, "brightness: %.3f\n", stats.BrightnessRatio())
		fmt.Fprintf(out, "edges:      %.3f\n", stats.EdgeRatio())
		fmt.Fprintf(out, "aspect:     %.3f\n", stats.AspectRatio())
		fmt.Fprintf(out, "family:     %s\n", heuristic.Classify(stats))
		return nil
	}

	text := heuristic.Generate(stats, name)
	fmt.Fprintln(out, text)

	if save, _ := cmd.Flags().GetBool("save"); save {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		stem := name[:len(name)-len(filepath.Ext(name))]
		saved, err := export.SaveSource(cfg.Export.Dir, stem, text)
		if err != nil {
			return fmt.Errorf("saving suggestion: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", saved)
	}
	return nil
}
