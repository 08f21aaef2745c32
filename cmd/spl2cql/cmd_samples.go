package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spl2cql/internal/translate"
)

// samplesCmd lists the bundled sample queries.
var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List bundled sample SPL queries",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range translate.SampleNames() {
			fmt.Printf("--- %s ---\n%s\n\n", name, translate.SampleQueries[name])
		}
	},
}
