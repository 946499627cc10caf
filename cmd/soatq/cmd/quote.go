package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/soat-quoter/app/models"
	"github.com/soat-quoter/internal/quoting"
	"github.com/spf13/cobra"
)

func newQuoteCommand(c *cli) *cobra.Command {
	var req quoting.Request
	var broker bool
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote one vehicle against every insurer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}
			tax, err := c.cfg.TaxFactor()
			if err != nil {
				return fmt.Errorf("pricing.tax_factor: %w", err)
			}

			results := engine.Quote(cmd.Context(), req)
			lines := make([]models.QuoteLine, 0, len(results))
			for _, r := range results {
				lines = append(lines, models.NewQuoteLine(r, broker, tax))
			}
			best := models.NewBestOffer(results)

			out := cmd.OutOrStdout()
			if c.asJSON {
				return writeJSON(out, struct {
					Results   []models.QuoteLine `json:"results"`
					BestOffer *models.BestOffer  `json:"best_offer"`
				}{lines, best})
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INSURER\tPRICE\tLIST\tZONE\tGROUP\tCAMPAIGN")
			for _, l := range lines {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					l.Insurer, l.Price, l.ListPrice, l.Zone, l.Group, l.CampaignName)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if best != nil {
				fmt.Fprintf(out, "\nBest offer: %s S/ %s\n", best.Insurer, best.Price)
			} else {
				fmt.Fprintln(out, "\nNo insurer has a price for this vehicle")
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Region, "region", "", "region of circulation")
	f.StringVar(&req.Usage, "usage", "", "vehicle usage, e.g. Particular")
	f.StringVar(&req.Class, "class", "", "vehicle class, e.g. Automovil")
	f.IntVar(&req.Seats, "seats", 0, "number of seats")
	f.StringVar(&req.Brand, "brand", "", "vehicle brand")
	f.StringVar(&req.Model, "model", "", "vehicle model")
	f.BoolVar(&broker, "broker", false, "include commissions")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("usage")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}
