package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/soat-quoter/internal/campaign"
	"github.com/soat-quoter/internal/matcher"
	"github.com/spf13/cobra"
)

func newCampaignsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaigns",
		Short: "Inspect the campaign sheet",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "audit",
		Short: "Check every campaign row and list the ones in force",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := c.cfg.MatchingRules()
			if err != nil {
				return err
			}
			overlay := campaign.NewOverlay(campaign.NewFileSource(c.cfg.Campaigns.Paths...), matcher.New(rules), c.logger)
			report, err := overlay.Audit(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.asJSON {
				return writeJSON(out, report)
			}
			fmt.Fprintf(out, "Rows: %d  Active: %d  Upcoming: %d  Issues: %d\n",
				report.Rows, len(report.Active), len(report.Upcoming), len(report.Issues))

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, a := range report.Active {
				fmt.Fprintf(tw, "active\t%d\t%s\t%s\t%s\t%s\n",
					a.Row, a.Insurer, a.Name, a.Price.StringFixed(2), a.End.Format("2006-01-02"))
			}
			for _, u := range report.Upcoming {
				fmt.Fprintf(tw, "upcoming\t%d\t%s\t%s\t%s\t%s\n",
					u.Row, u.Insurer, u.Name, u.Price.StringFixed(2), u.Start.Format("2006-01-02"))
			}
			for _, i := range report.Issues {
				fmt.Fprintf(tw, "issue\t%d\t%s\t%s\n", i.Row, i.Kind, i.Detail)
			}
			return tw.Flush()
		},
	})
	return cmd
}
