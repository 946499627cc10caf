package cmd

import (
	"fmt"
	"strings"

	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/quoting"
	"github.com/spf13/cobra"
)

func newClassesCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the vehicle classes found in the tariffs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			classes := engine.VehicleClasses()
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), classes)
			}
			for _, cl := range classes {
				fmt.Fprintln(cmd.OutOrStdout(), cl)
			}
			return nil
		},
	}
}

func newCatalogCommand(c *cli) *cobra.Command {
	var brand string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List brands and models from the group tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			catalog := engine.VehicleCatalog()
			if brand != "" {
				b := normalizer.Normalize(brand)
				catalog = map[string][]string{b: catalog[b]}
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), catalog)
			}
			for _, b := range quoting.Brands(catalog) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", b, strings.Join(catalog[b], ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "only this brand")
	return cmd
}
