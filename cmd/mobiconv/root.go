package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/JVHannila/MoBI-project/pkg/logger"
)

func newRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "mobiconv",
		Short:         "Multi-stream biosignal to structured dataset converter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch strings.ToLower(logLevel) {
			case "debug":
				logger.SetLevel(logger.DEBUG)
			case "warn":
				logger.SetLevel(logger.WARN)
			case "error":
				logger.SetLevel(logger.ERROR)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log threshold (debug, info, warn, error)")

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newMontageCommand())

	return rootCmd
}
