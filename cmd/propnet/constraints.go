package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/pkg/config"
	"github.com/spf13/cobra"
)

var constraintsCmd = &cobra.Command{
	Use:   "constraints",
	Short: "List the constraint kinds accepted by --constraint",
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tCELLS\tMEANING")
		for _, c := range cli.NewSolver(config.Default(), nil).Constraints() {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.Arity, c.Description)
		}
		tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(constraintsCmd)
}
