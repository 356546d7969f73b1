package main

import (
	"fmt"
	"os"

	"portfolio-backend/internal/application/seed"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/infrastructure/database"
	"portfolio-backend/internal/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newSeedCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func newSeedCommand() *cobra.Command {
	opts := seed.DefaultOptions()
	var dryRun bool

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load demo users, assets, portfolios and transactions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				plan, err := seed.BuildPlan(opts)
				if err != nil {
					return err
				}
				return plan.Write(cmd.OutOrStdout())
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.SetGlobalLogger(logger.New(logger.Config{
				Level:  cfg.LogLevel,
				Pretty: true,
				Out:    cmd.ErrOrStderr(),
			}))
			opts.Password = cfg.SeedPassword

			db, err := database.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			report, err := seed.Run(cmd.Context(), db, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"users: %d created, %d existing\nassets: %d created, %d existing\nportfolios: %d created, %d existing\ntransactions: %d admitted\n",
				report.UsersCreated, report.UsersReused,
				report.AssetsCreated, report.AssetsReused,
				report.PortfoliosCreated, report.PortfoliosReused,
				report.TransactionsAdmitted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without writing")
	cmd.Flags().StringSliceVar(&opts.Hosts, "hosts", opts.Hosts, "tenant hosts to seed")
	cmd.Flags().IntVar(&opts.NumAssets, "num-assets", opts.NumAssets, "number of DEMO assets")
	cmd.Flags().IntVar(&opts.HoldingsPerPortfolio, "holdings-per-portfolio", opts.HoldingsPerPortfolio, "distinct assets bought per portfolio")
	cmd.Flags().IntVar(&opts.TransactionsPerPortfolio, "transactions-per-portfolio", opts.TransactionsPerPortfolio, "BUY transactions per new portfolio")
	return cmd
}
