package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/deed-cli/internal/model"
	"github.com/sells-group/deed-cli/internal/store"
)

var (
	runsStatus string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past deed-processing runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(runsStatus),
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}

		for _, r := range runs {
			line := fmt.Sprintf("%s\t%s\t%s", r.ID, r.DocID, r.Status)
			if r.Result != nil {
				line += fmt.Sprintf("\t%s\ttax=%s", r.Result.NormalizedCounty, r.Result.TaxDue.String())
			}
			if r.Error != "" {
				line += "\t" + r.Error
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by run status")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	rootCmd.AddCommand(runsCmd)
}
