package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lantern/internal/login"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List the suite's test cases",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, c := range login.Cases("") {
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", c.ID, c.Name)
		}
		return nil
	},
}
