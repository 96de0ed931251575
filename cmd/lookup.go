package cmd

import (
	"fmt"
	"io"

	"github.com/agentic-research/rcfs/internal/tree"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [key]",
	Short: "List the rc-files that define a setting key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTree()
		if err != nil {
			return err
		}
		return runLookup(cmd.OutOrStdout(), t, args[0])
	},
}

// runLookup prints "<path>\t<value>" for every setting named key.
func runLookup(w io.Writer, t *tree.Tree, key string) error {
	files := t.FilesWithKey(key)
	if len(files) == 0 {
		return fmt.Errorf("no setting named %q", key)
	}
	for _, f := range files {
		for _, l := range f.Lines() {
			if l.Key != key {
				continue
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\n", f.Path(), l.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
