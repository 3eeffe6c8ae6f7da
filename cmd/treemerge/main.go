// Package main provides the treemerge CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "treemerge",
		Short: "Three-way structural merge for Java source files",
		Long:  `treemerge merges left/base/right revisions of Java source using a structural tree matcher, falling back to line-based or semistructured merging where the structured matcher cannot apply.`,
	}

	rootCmd.AddCommand(mergeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
