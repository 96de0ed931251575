package cmd

import (
	"github.com/agentic-research/rcfs/internal/export"
	"github.com/spf13/cobra"
)

var dumpQuery string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the configuration tree as JSON",
	Long: `Print the configuration tree as JSON. Directories are objects keyed by
child name; rc-files are arrays of {"key", "value"} objects.

Use --query to apply a JSONPath expression, e.g.
  rcfs dump --query '$.input.port1rc[*].value'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTree()
		if err != nil {
			return err
		}
		return export.Dump(cmd.OutOrStdout(), t, dumpQuery)
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpQuery, "query", "q", "", "JSONPath expression to evaluate")
	rootCmd.AddCommand(dumpCmd)
}
