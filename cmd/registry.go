package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/deed-cli/internal/registry"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the county reference registry",
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the registry and report whether it is usable",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.Load(cfg.Registry.Path)
		if err != nil {
			return eris.Wrapf(err, "registry %s is invalid", cfg.Registry.Path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registry %s OK: %d counties\n", cfg.Registry.Path, reg.Len())
		return nil
	},
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registry entries with their tax rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.Load(cfg.Registry.Path)
		if err != nil {
			return eris.Wrapf(err, "load registry %s", cfg.Registry.Path)
		}
		for _, c := range reg.Counties() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Name, c.TaxRate.String())
		}
		return nil
	},
}

func init() {
	registryCmd.AddCommand(registryValidateCmd)
	registryCmd.AddCommand(registryListCmd)
	rootCmd.AddCommand(registryCmd)
}
