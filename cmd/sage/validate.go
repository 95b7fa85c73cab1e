package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cosmotree/sage/internal/config"
)

func validateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config <parameter-file>",
		Short: "Parse and validate a parameter file without running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, scaleFactors, err := config.Load(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s\n%d snapshots configured\n", cfg.String(), len(scaleFactors))
			return nil
		},
	}
}
