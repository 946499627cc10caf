package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/soat-quoter/app/services"
	"github.com/spf13/cobra"
)

func newHistoryCommand(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest stored quotes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := services.NewHistoryStore(cmd.Context(), c.cfg.History, c.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if c.asJSON {
				return writeJSON(out, records)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "QUOTE\tROLE\tCREATED\tVEHICLE\tBEST")
			for _, r := range records {
				best := "-"
				if r.Best != nil {
					best = r.Best.Insurer + " " + r.Best.Price
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\n",
					r.QuoteNumber, r.Role, r.CreatedAt.Format("2006-01-02 15:04"),
					r.Vehicle.Brand, r.Vehicle.Model, best)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of quotes, 0 for all")
	return cmd
}
