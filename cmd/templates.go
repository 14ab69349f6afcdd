package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mermaid-live/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [key]",
	Short: "List the diagram templates or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, k := range templates.Keys() {
				fmt.Fprintf(out, "%-10s %s\n", k, templates.Titles[k])
			}
			return nil
		}
		text, ok := templates.Lookup(templates.Key(args[0]))
		if !ok {
			keys := make([]string, 0, len(templates.Keys()))
			for _, k := range templates.SortedKeys() {
				keys = append(keys, string(k))
			}
			return fmt.Errorf("unknown template %q (available: %s)", args[0], strings.Join(keys, ", "))
		}
		fmt.Fprintln(out, text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
