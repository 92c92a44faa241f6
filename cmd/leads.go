package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen/internal/store"
)

var (
	leadsTenant string
	leadsLimit  int
	leadsOffset int
	leadsFormat string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored leads for a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads, err := st.ListLeads(ctx, store.LeadFilter{
			TenantID: leadsTenant,
			Limit:    leadsLimit,
			Offset:   leadsOffset,
		})
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), leadsFormat, leads)
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsTenant, "tenant", "", "tenant (user) id (required)")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", store.DefaultListLimit, "maximum leads to list")
	leadsCmd.Flags().IntVar(&leadsOffset, "offset", 0, "leads to skip")
	leadsCmd.Flags().StringVar(&leadsFormat, "format", "json", "output format (json, yaml)")
	_ = leadsCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(leadsCmd)
}
