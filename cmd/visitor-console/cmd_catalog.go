package main

import (
	"fmt"

	"visitor-console/internal/catalog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the option lists in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cat)
		if err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}
