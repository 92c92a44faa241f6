package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen/internal/model"
	"github.com/sells-group/leadgen/internal/pipeline"
)

var (
	searchTenant string
	searchTerm   string
	searchNum    int
	searchLat    float64
	searchLng    float64
	searchFormat string
)

// searchOutput is what the search command prints.
type searchOutput struct {
	Leads      []model.StorageLead `json:"leads" yaml:"leads"`
	Candidates int                 `json:"candidates" yaml:"candidates"`
	Validated  int                 `json:"validated" yaml:"validated"`
	Stored     int                 `json:"stored" yaml:"stored"`
	PersistErr string              `json:"persist_error,omitempty" yaml:"persist_error,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one lead search and print the leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx, "pipeline")
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Pipeline.Run(ctx, pipeline.Request{
			TenantID:    searchTenant,
			Term:        searchTerm,
			TargetCount: searchNum,
			Latitude:    searchLat,
			Longitude:   searchLng,
		})
		if err != nil {
			return err
		}

		out := searchOutput{
			Leads:      res.Leads,
			Candidates: res.Candidates,
			Validated:  res.Validated,
			Stored:     res.Stored,
		}
		if res.PersistErr != nil {
			out.PersistErr = res.PersistErr.Error()
		}

		zap.L().Info("search complete", zap.Int("leads", len(res.Leads)), zap.Int("stored", res.Stored))
		return writeOutput(cmd.OutOrStdout(), searchFormat, out)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchTenant, "tenant", "", "tenant (user) id owning the leads (required)")
	searchCmd.Flags().StringVar(&searchTerm, "term", "", "search term, e.g. padaria (required)")
	searchCmd.Flags().IntVar(&searchNum, "num", 10, "desired number of leads (advisory)")
	searchCmd.Flags().Float64Var(&searchLat, "lat", 0, "latitude of the search origin")
	searchCmd.Flags().Float64Var(&searchLng, "lng", 0, "longitude of the search origin")
	searchCmd.Flags().StringVar(&searchFormat, "format", "json", "output format (json, yaml)")
	_ = searchCmd.MarkFlagRequired("tenant")
	_ = searchCmd.MarkFlagRequired("term")
	rootCmd.AddCommand(searchCmd)
}
