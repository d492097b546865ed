package cmd

import (
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check a script for diagnostics without generating a backend",
	RunE:  runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input script file")
	_ = lintCmd.MarkFlagRequired("input")
}

func runLint(cmd *cobra.Command, args []string) error {
	return compileOrLint(true)
}
