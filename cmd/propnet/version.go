package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/propnet"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of propnet",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "propnet version %s\n", strings.TrimSpace(propnet.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
