package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrissnell/moonreport/internal/constants"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "moonreport %s\n", constants.Version)
		},
	}
}
