// Package cmd provides the soatq commands.
package cmd

import (
	"fmt"

	"github.com/soat-quoter/app/config"
	"github.com/soat-quoter/app/services"
	"github.com/soat-quoter/helpers/logger"
	"github.com/soat-quoter/internal/quoting"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli is the state shared by the subcommands once the root has run.
type cli struct {
	cfgFile string
	verbose bool
	asJSON  bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the soatq command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "soatq",
		Short: "Compare SOAT prices across insurers",
		Long: `soatq loads the insurer tariff workbooks and the campaign sheet
configured for the API and answers from them directly.

Examples:
  soatq quote --region Lima --usage Particular --class Automovil --brand Toyota --model Yaris
  soatq classes
  soatq campaigns audit --json`,
		SilenceUsage:      true,
		PersistentPreRunE: c.init,
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default config/app.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newQuoteCommand(c),
		newClassesCommand(c),
		newCatalogCommand(c),
		newCampaignsCommand(c),
		newHistoryCommand(c),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	lc := cfg.LoggerConfig()
	// stdout carries command output
	lc.Output = "stderr"
	if c.verbose {
		lc.Level = "debug"
	} else if lc.Level == "" || lc.Level == "info" {
		lc.Level = "warn"
	}
	log, err := logger.New(lc)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.cfg = cfg
	c.logger = log
	return nil
}

func (c *cli) engine() (*quoting.Engine, error) {
	return services.BuildEngine(c.cfg, c.logger)
}
