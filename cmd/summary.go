package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/billbatista/acasinha-splits/api"
	"github.com/billbatista/acasinha-splits/config"
	"github.com/billbatista/acasinha-splits/ledger"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the balance summary for the seed expenses in the config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), cfg)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the configured roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		roster, err := cfg.Roster()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, u := range roster.Users() {
			fmt.Fprintf(tw, "%s\t%s\n", u.ID, u.Name)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd, usersCmd)
}

func printSummary(w io.Writer, cfg config.Config) error {
	roster, err := cfg.Roster()
	if err != nil {
		return err
	}
	seeds, err := cfg.SeedExpenses()
	if err != nil {
		return err
	}

	svc := api.NewService(roster, ledger.New(), nil, nil)
	if err := svc.Seed(seeds); err != nil {
		return err
	}

	summary, err := svc.Summary()
	if err != nil {
		return err
	}
	if len(summary) == 0 {
		_, err := fmt.Fprintln(w, "Everyone is settled, nobody owes anything.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range summary {
		verb := "owes"
		if s.Status == ledger.StatusOwed {
			verb = "is owed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, verb, api.FormatAmount(s.Amount, cfg.Currency))
	}
	return tw.Flush()
}
