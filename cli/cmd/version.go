package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Reports the version",
		Long:  "Reports the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.stdout, a.version)
		},
	}
}
