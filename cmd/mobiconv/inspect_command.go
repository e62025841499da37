package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JVHannila/MoBI-project/pkg/mobi/inspect"
	"github.com/JVHannila/MoBI-project/pkg/mobi/xdf"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <container-file>",
		Short: "Print a diagnostic report for one container file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			streams, err := xdf.LoadJSON(args[0])
			if err != nil {
				return err
			}
			report := inspect.Build(args[0], streams)
			fmt.Fprint(cmd.OutOrStdout(), report.String())
			return nil
		},
	}
	return cmd
}
