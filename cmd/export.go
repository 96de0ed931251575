package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agentic-research/rcfs/internal/export"
	"github.com/agentic-research/rcfs/internal/tree"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [output.db]",
	Short: "Write the configuration tree to a SQLite database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTree()
		if err != nil {
			return err
		}
		return runExport(cmd.OutOrStdout(), t, args[0])
	},
}

func runExport(w io.Writer, t *tree.Tree, output string) error {
	if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", output, err)
	}

	start := time.Now()
	if err := export.WriteSQLite(t, output); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %d entries to %s in %v.\n", t.Index().Len(), output, time.Since(start))
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
