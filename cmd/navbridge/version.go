package main

import (
	"fmt"

	"github.com/aretw0/navbridge"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of navbridge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "navbridge version %s\n", navbridge.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
