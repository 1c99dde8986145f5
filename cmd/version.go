package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/careerfit/internal/reference"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the embedded reference data versions",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s\n", app, version)

		set, err := reference.Default()
		if err != nil {
			fmt.Printf("reference data: %v\n", err)
			return
		}
		fmt.Printf("catalog: %s (%d records)\n", set.Catalog.Version(), set.Catalog.Len())
		fmt.Printf("cluster taxonomy: %s (%d categories)\n", set.Clusters.Version, set.Clusters.Len())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
