package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/JVHannila/MoBI-project/pkg/logger"
	"github.com/JVHannila/MoBI-project/pkg/mobi/montage"
)

func newMontageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montage",
		Short: "Build and inspect sensor-digitization files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newMontageBuildCommand())
	cmd.AddCommand(newMontageShowCommand())
	return cmd
}

func newMontageBuildCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the analytic PROX-64 cap montage and save it",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := montage.ProX64()
			if err := m.Save(outPath); err != nil {
				return err
			}
			logger.Infof("Saved %d channel positions to %s", len(m.Positions), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "prox64-montage.tsv", "Output digitization file")
	return cmd
}

func newMontageShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <digitization-file>",
		Short: "Print the positions stored in a digitization file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := montage.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if fid := m.Fiducials; fid != nil {
				fmt.Fprintf(out, "LPA:    (%.4f, %.4f, %.4f)\n", fid.LPA[0], fid.LPA[1], fid.LPA[2])
				fmt.Fprintf(out, "RPA:    (%.4f, %.4f, %.4f)\n", fid.RPA[0], fid.RPA[1], fid.RPA[2])
				fmt.Fprintf(out, "Nasion: (%.4f, %.4f, %.4f)\n", fid.Nasion[0], fid.Nasion[1], fid.Nasion[2])
			}
			labels := m.Labels()
			sort.Strings(labels)
			for _, label := range labels {
				pos := m.Positions[label]
				fmt.Fprintf(out, "%-10s (%.4f, %.4f, %.4f)\n", label, pos[0], pos[1], pos[2])
			}
			fmt.Fprintf(out, "%d channels\n", len(labels))
			return nil
		},
	}
	return cmd
}
